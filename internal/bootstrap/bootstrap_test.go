package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/internal/config"
	"github.com/shxlzz/To-Do-List/internal/testutil"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Storage: config.StorageConfig{
			Backend:         backend,
			BoltPath:        filepath.Join(dir, "todo.db"),
			BoltBucket:      "todo",
			MonitorInterval: time.Hour,
		},
		Redis:    config.RedisConfig{KeyPrefix: "todo:"},
		Buffer:   config.BufferConfig{Path: filepath.Join(dir, "buffer.db"), SyncInterval: time.Hour, MaxRetry: 3},
		Context:  config.ContextConfig{ShutdownTimeout: 5 * time.Second},
		Security: config.SecurityConfig{PasswordHashing: config.HashingPlain},
	}
}

func build(t *testing.T, cfg *config.Config) *Runtime {
	t.Helper()
	rt, err := Build(context.Background(), cfg, &testutil.RecordingRenderer{}, zap.NewNop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return rt
}

func exec(t *testing.T, rt *Runtime, name string, payload interface{}) *app.Result {
	t.Helper()
	res, err := rt.App.Execute(context.Background(), name, payload)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return res
}

func TestBoltRuntimeSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, config.BackendBolt)
	ctx := context.Background()

	rt := build(t, cfg)
	exec(t, rt, app.CmdRegister, app.Credentials{Username: "alice", Password: "pw"})
	exec(t, rt, app.CmdAuthenticate, app.Credentials{Username: "alice", Password: "pw"})
	exec(t, rt, app.CmdAddTask, app.AddTaskInput{Text: "water plants"})
	if !rt.Monitor.IsOnline() {
		t.Fatal("bolt store reported offline")
	}
	if err := rt.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	rt = build(t, cfg)
	t.Cleanup(func() { _ = rt.Shutdown(context.Background()) })
	res, err := rt.App.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if res.Snapshot.Username != "alice" || res.Snapshot.View.Total != 1 {
		t.Fatalf("state not restored: %+v", res.Snapshot)
	}
}

func TestRedisRuntimeWritesThrough(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := testConfig(t, config.BackendRedis)
	cfg.Redis.URL = "redis://" + srv.Addr()

	rt := build(t, cfg)
	t.Cleanup(func() { _ = rt.Shutdown(context.Background()) })

	exec(t, rt, app.CmdRegister, app.Credentials{Username: "bob", Password: "pw"})
	if !srv.Exists("todo:users") {
		t.Fatal("directory not written to redis")
	}
	if status := rt.Monitor.GetStatus(); !status.Online || !status.Buffer || status.BufferSize != 0 {
		t.Fatalf("unexpected monitor status %+v", status)
	}
}

func TestBuildRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t, "mongo")
	if _, err := Build(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestPasswordHasherModes(t *testing.T) {
	for _, mode := range []string{config.HashingBcrypt, config.HashingPlain, ""} {
		if _, err := passwordHasher(mode); err != nil {
			t.Errorf("mode %q: %v", mode, err)
		}
	}
	if _, err := passwordHasher("md5"); err == nil {
		t.Error("expected error for md5")
	}
}
