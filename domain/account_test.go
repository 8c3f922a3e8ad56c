package domain

import (
	"errors"
	"testing"
)

func TestDecodeDirectoryRoundTrip(t *testing.T) {
	dir := Directory{
		"alice": {Username: "alice", Password: "pw", Tasks: []Task{{Text: "buy milk", Completed: true}}, Theme: "dark", IsPremium: true},
	}
	data, err := EncodeDirectory(dir)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeDirectory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	alice := got["alice"]
	if alice == nil {
		t.Fatal("alice missing after decode")
	}
	if alice.Username != "alice" || alice.Password != "pw" || alice.Theme != "dark" || !alice.IsPremium {
		t.Errorf("unexpected account: %+v", alice)
	}
	if len(alice.Tasks) != 1 || alice.Tasks[0] != (Task{Text: "buy milk", Completed: true}) {
		t.Errorf("unexpected tasks: %+v", alice.Tasks)
	}
}

func TestDecodeDirectoryEmpty(t *testing.T) {
	dir, err := DecodeDirectory(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dir) != 0 {
		t.Errorf("expected empty directory, got %d entries", len(dir))
	}
}

func TestDecodeDirectoryRepairsMissingFields(t *testing.T) {
	data := []byte(`{"bob":{"password":"x"},"carol":{"password":"y","tasks":[],"theme":"vintage","isPremium":false}}`)

	dir, err := DecodeDirectory(data)
	if !IsDomainError(err, ErrCodeCorruptState) {
		t.Fatalf("expected corrupt state error, got %v", err)
	}
	var repaired *RepairedAccountsError
	if !errors.As(err, &repaired) {
		t.Fatalf("expected repaired accounts detail, got %v", err)
	}
	if len(repaired.Usernames) != 1 || repaired.Usernames[0] != "bob" {
		t.Errorf("unexpected repaired list: %v", repaired.Usernames)
	}

	bob := dir["bob"]
	if bob.Password != "x" || bob.Theme != DefaultTheme || bob.IsPremium || len(bob.Tasks) != 0 {
		t.Errorf("bob not repaired with defaults: %+v", bob)
	}
	if dir["carol"].Theme != "vintage" {
		t.Errorf("intact account altered: %+v", dir["carol"])
	}
}

func TestDecodeDirectoryAcceptsLegacyTodosKey(t *testing.T) {
	data := []byte(`{"dave":{"password":"p","todos":[{"text":"walk dog","completed":false}],"theme":"default","isPremium":false}}`)

	dir, err := DecodeDirectory(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dir["dave"].Tasks; len(got) != 1 || got[0].Text != "walk dog" {
		t.Errorf("unexpected tasks: %+v", got)
	}
}

func TestDecodeDirectoryUnreadable(t *testing.T) {
	dir, err := DecodeDirectory([]byte("not json"))
	if !IsDomainError(err, ErrCodeCorruptState) {
		t.Fatalf("expected corrupt state error, got %v", err)
	}
	if dir == nil || len(dir) != 0 {
		t.Errorf("expected usable empty directory, got %v", dir)
	}
}

func TestDirectoryCloneDoesNotAlias(t *testing.T) {
	dir := Directory{"a": NewAccount("a", "p")}
	dir["a"].Tasks = append(dir["a"].Tasks, Task{Text: "x"})

	cp := dir.Clone()
	cp["a"].Tasks[0].Completed = true
	cp["a"].Theme = "dark"

	if dir["a"].Tasks[0].Completed || dir["a"].Theme != DefaultTheme {
		t.Errorf("clone aliases original: %+v", dir["a"])
	}
}

func TestMissingPasswordSurvivesReencode(t *testing.T) {
	dir, _ := DecodeDirectory([]byte(`{"mallory":{"tasks":[],"theme":"default","isPremium":false}}`))
	if !dir["mallory"].NoPassword {
		t.Fatal("record without password not flagged")
	}

	data, err := EncodeDirectory(dir)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, _ := DecodeDirectory(data)
	if !again["mallory"].NoPassword {
		t.Errorf("flag lost after re-encode: %s", data)
	}
}
