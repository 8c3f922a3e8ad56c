package repository

import (
	"context"

	"github.com/shxlzz/To-Do-List/domain"
)

// Storage keys, matching the browser build's localStorage layout.
const (
	KeyAccounts = "users"
	KeySession  = "currentUser"
)

// AccountRepository persists the whole account directory as one unit.
type AccountRepository interface {
	Load(ctx context.Context) (domain.Directory, error)
	Save(ctx context.Context, dir domain.Directory) error
}

// SessionRepository persists the active username so a restarted process resumes the session.
type SessionRepository interface {
	// Current returns "" when no session is stored.
	Current(ctx context.Context) (string, error)
	Save(ctx context.Context, username string) error
	Clear(ctx context.Context) error
}

// KVStore is the minimal durable key-value contract every backend provides.
// Put must replace the value atomically.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
