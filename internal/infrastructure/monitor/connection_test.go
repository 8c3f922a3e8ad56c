package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

type fakeBuffer struct {
	size int
	err  error
}

func (f fakeBuffer) Size() (int, error) { return f.size, f.err }

func TestRefreshReportsBackendAndBuffer(t *testing.T) {
	target := &fakePinger{}
	m := New("redis", target, fakeBuffer{size: 4}, time.Hour, zaptest.NewLogger(t))

	status := m.Refresh()
	if !status.Online || !m.IsOnline() {
		t.Fatal("expected backend online")
	}
	if status.Backend != "redis" || !status.Buffer || status.BufferSize != 4 {
		t.Fatalf("unexpected status %+v", status)
	}

	target.err = errors.New("connection refused")
	first := m.Refresh()
	if m.IsOnline() {
		t.Fatal("expected backend offline after failed ping")
	}
	if first.LastError != "connection refused" || first.OfflineSince.IsZero() {
		t.Fatalf("outage not recorded: %+v", first)
	}
	if second := m.Refresh(); !second.OfflineSince.Equal(first.OfflineSince) {
		t.Fatal("offline since moved during one outage")
	}

	target.err = nil
	if back := m.Refresh(); !back.Online || !back.OfflineSince.IsZero() || back.LastError != "" {
		t.Fatalf("recovery not recorded: %+v", back)
	}
	if m.GetStatus().LastCheck.IsZero() {
		t.Fatal("last check not recorded")
	}
}

func TestMissingCollaboratorsAreOffline(t *testing.T) {
	m := New("postgres", nil, nil, 0, nil)
	status := m.Refresh()
	if status.Online || status.Buffer {
		t.Fatalf("expected offline status, got %+v", status)
	}
}

func TestStartAndStop(t *testing.T) {
	m := New("bolt", &fakePinger{}, fakeBuffer{}, 10*time.Millisecond, zaptest.NewLogger(t))
	m.Start()
	if !m.IsOnline() {
		t.Fatal("start should probe synchronously")
	}
	m.Stop()
	m.Stop()
}
