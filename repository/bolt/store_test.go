package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/repository"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "todo.db")
	store, err := Open(path, "")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store, path
}

func TestStoreGetPutDelete(t *testing.T) {
	store, _ := openTestStore(t)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v2" {
		t.Fatalf("expected v2, got %q ok=%v err=%v", got, ok, err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("value survived delete")
	}
	if err := store.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(store)
	sessions := repository.NewSessionRepository(store)

	dir := domain.Directory{"alice": domain.NewAccount("alice", "pw")}
	dir["alice"].Tasks = []domain.Task{{Text: "write tests"}}
	if err := accounts.Save(ctx, dir); err != nil {
		t.Fatalf("save directory: %v", err)
	}
	if err := sessions.Save(ctx, "alice"); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	loaded, err := repository.NewAccountRepository(reopened).Load(ctx)
	if err != nil {
		t.Fatalf("load directory: %v", err)
	}
	if got := loaded["alice"]; got == nil || len(got.Tasks) != 1 || got.Tasks[0].Text != "write tests" {
		t.Fatalf("unexpected directory after reopen: %+v", loaded)
	}
	user, err := repository.NewSessionRepository(reopened).Current(ctx)
	if err != nil || user != "alice" {
		t.Fatalf("expected alice session, got %q err=%v", user, err)
	}
}

func TestClosedStoreReportsError(t *testing.T) {
	var store *Store
	if err := store.Put(context.Background(), "k", nil); err == nil {
		t.Error("expected error from nil store")
	}
	if err := store.Close(); err != nil {
		t.Errorf("close on nil store: %v", err)
	}
}
