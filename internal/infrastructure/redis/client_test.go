package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap/zaptest"

	"github.com/shxlzz/To-Do-List/internal/config"
)

func TestNewClientConnects(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(context.Background(), config.RedisConfig{URL: "redis://" + srv.Addr()}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	srv.CheckGet(t, "k", "v")
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient(context.Background(), config.RedisConfig{URL: "://nope"}, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClientOptionsOverrideURL(t *testing.T) {
	opts, err := clientOptions(config.RedisConfig{URL: "redis://:fromurl@cache:6380/1", Password: "explicit", DB: 4})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "explicit" || opts.DB != 4 {
		t.Fatalf("unexpected options addr=%s password=%s db=%d", opts.Addr, opts.Password, opts.DB)
	}

	opts, _ = clientOptions(config.RedisConfig{URL: "redis://:fromurl@cache:6380/1"})
	if opts.Password != "fromurl" || opts.DB != 1 {
		t.Fatalf("url settings lost: password=%s db=%d", opts.Password, opts.DB)
	}
}
