package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOfWalksTheChain(t *testing.T) {
	err := fmt.Errorf("save account directory: %w", WrapError(ErrCodeCorruptState, "unreadable", errors.New("eof")))
	if CodeOf(err) != ErrCodeCorruptState {
		t.Fatalf("unexpected code %s", CodeOf(err))
	}
	if CodeOf(errors.New("disk full")) != ErrCodeInternal {
		t.Fatal("plain errors should be internal")
	}
	if IsDomainError(nil, ErrCodeInternal) {
		t.Fatal("nil is not a domain error")
	}
}

func TestSentinelsMatchCopies(t *testing.T) {
	copied := *ErrNoActiveSession
	if !errors.Is(fmt.Errorf("view: %w", &copied), ErrNoActiveSession) {
		t.Fatal("copy of sentinel did not match")
	}
	if errors.Is(ErrNoActiveSession, ErrAccountNotFound) {
		t.Fatal("different sentinels matched")
	}
}
