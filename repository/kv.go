package repository

import (
	"context"
	"fmt"

	"github.com/shxlzz/To-Do-List/domain"
)

type kvAccountRepository struct {
	kv KVStore
}

// NewAccountRepository stores the directory under KeyAccounts of kv.
func NewAccountRepository(kv KVStore) AccountRepository {
	return &kvAccountRepository{kv: kv}
}

func (r *kvAccountRepository) Load(ctx context.Context) (domain.Directory, error) {
	data, ok, err := r.kv.Get(ctx, KeyAccounts)
	if err != nil {
		return nil, fmt.Errorf("load account directory: %w", err)
	}
	if !ok {
		return domain.Directory{}, nil
	}
	// DecodeDirectory may return a usable directory together with a corrupt-state error.
	return domain.DecodeDirectory(data)
}

func (r *kvAccountRepository) Save(ctx context.Context, dir domain.Directory) error {
	payload, err := domain.EncodeDirectory(dir)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, KeyAccounts, payload); err != nil {
		return fmt.Errorf("save account directory: %w", err)
	}
	return nil
}

type kvSessionRepository struct {
	kv KVStore
}

// NewSessionRepository stores the active username under KeySession of kv.
func NewSessionRepository(kv KVStore) SessionRepository {
	return &kvSessionRepository{kv: kv}
}

func (r *kvSessionRepository) Current(ctx context.Context) (string, error) {
	data, ok, err := r.kv.Get(ctx, KeySession)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(data), nil
}

func (r *kvSessionRepository) Save(ctx context.Context, username string) error {
	if username == "" {
		return domain.ErrInvalidPayload
	}
	return r.kv.Put(ctx, KeySession, []byte(username))
}

func (r *kvSessionRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, KeySession)
}
