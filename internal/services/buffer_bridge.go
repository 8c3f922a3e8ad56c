package services

import (
	"context"

	"github.com/shxlzz/To-Do-List/internal/infrastructure/buffer"
	"github.com/shxlzz/To-Do-List/repository"
)

// BufferedStore is a repository.KVStore that routes writes through a BufferProcessor.
// Reads prefer a pending buffered value so callers always see their own writes.
type BufferedStore struct {
	primary   repository.KVStore
	processor *BufferProcessor
}

func NewBufferedStore(primary repository.KVStore, processor *BufferProcessor) *BufferedStore {
	return &BufferedStore{primary: primary, processor: processor}
}

func (b *BufferedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item, ok, err := b.processor.Pending(key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		if item.Operation == buffer.OperationDelete {
			return nil, false, nil
		}
		return append([]byte(nil), item.Data...), true, nil
	}
	return b.primary.Get(ctx, key)
}

func (b *BufferedStore) Put(ctx context.Context, key string, value []byte) error {
	return b.processor.BufferOperation(ctx, buffer.Item{
		Key:       key,
		Entity:    entityFor(key),
		Operation: buffer.OperationPut,
		Data:      append([]byte(nil), value...),
		Priority:  priorityFor(key),
	})
}

func (b *BufferedStore) Delete(ctx context.Context, key string) error {
	return b.processor.BufferOperation(ctx, buffer.Item{
		Key:       key,
		Entity:    entityFor(key),
		Operation: buffer.OperationDelete,
		Priority:  priorityFor(key),
	})
}

func (b *BufferedStore) Ping(ctx context.Context) error {
	return b.primary.Ping(ctx)
}

func (b *BufferedStore) Close() error {
	return b.primary.Close()
}

func entityFor(key string) string {
	switch key {
	case repository.KeyAccounts:
		return buffer.EntityDirectory
	case repository.KeySession:
		return buffer.EntitySession
	default:
		return buffer.EntityOther
	}
}

func priorityFor(key string) int {
	if key == repository.KeyAccounts {
		return 2
	}
	return 3
}

var _ repository.KVStore = (*BufferedStore)(nil)
