package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/internal/infrastructure/buffer"
	"github.com/shxlzz/To-Do-List/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	// MaxAge drops buffered writes older than this on every drain. Zero keeps them.
	MaxAge time.Duration
}

func (c ProcessorConfig) withDefaults() ProcessorConfig {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return c
}

var errNotConfigured = errors.New("buffer processor not configured")

// BufferProcessor replays buffered writes against the primary store.
type BufferProcessor struct {
	store   *buffer.Store
	monitor ConnectionHealth
	primary repository.KVStore
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig

	// mu orders drains against direct writes so a replayed item never lands after a newer value.
	mu sync.Mutex
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	primary repository.KVStore,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	bp := &BufferProcessor{
		store:   store,
		monitor: monitor,
		primary: primary,
		logger:  logger,
		cfg:     cfg.withDefaults(),
		// a slow drain must not overlap the next tick
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	bp.cron.Schedule(cron.Every(bp.cfg.Interval), drainJob{bp})
	return bp
}

type drainJob struct {
	bp *BufferProcessor
}

func (j drainJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.bp.cfg.Interval)
	defer cancel()
	if err := j.bp.Drain(ctx); err != nil {
		j.bp.logger.Error("buffer drain failed", zap.Error(err))
	}
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain to finish, or for ctx to expire.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	select {
	case <-bp.cron.Stop().Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

type drainReport struct {
	applied, superseded, retried, dropped int
}

// Drain replays one batch of buffered writes synchronously.
// Only the newest pending write per key is applied; older ones are superseded.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cfg.MaxAge > 0 {
		if err := bp.store.Cleanup(time.Now().Add(-bp.cfg.MaxAge)); err != nil {
			bp.logger.Warn("buffer cleanup failed", zap.Error(err))
		}
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}
	apply, superseded := coalesce(items)

	var report drainReport
	for _, item := range superseded {
		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge superseded buffer item", zap.String("item_id", item.ID), zap.Error(err))
		}
		report.superseded++
	}
	for _, item := range apply {
		if err := bp.replay(ctx, item); err != nil {
			if bp.retryLater(item, err) {
				report.retried++
			} else {
				report.dropped++
			}
			continue
		}
		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge processed buffer item", zap.String("item_id", item.ID), zap.Error(err))
		}
		report.applied++
	}

	if len(items) > 0 {
		bp.logger.Info("buffer drained",
			zap.Int("applied", report.applied),
			zap.Int("superseded", report.superseded),
			zap.Int("retried", report.retried),
			zap.Int("dropped", report.dropped))
	}
	return nil
}

// coalesce splits a batch into the newest write per key and the older writes it supersedes.
// The newest writes keep batch order.
func coalesce(items []buffer.Item) (apply, superseded []buffer.Item) {
	newest := make(map[string]buffer.Item, len(items))
	for _, item := range items {
		if prev, ok := newest[item.Key]; !ok || item.Newer(prev) {
			newest[item.Key] = item
		}
	}
	for _, item := range items {
		if newest[item.Key].ID == item.ID {
			apply = append(apply, item)
		} else {
			superseded = append(superseded, item)
		}
	}
	return apply, superseded
}

// retryLater requeues a failed item and reports false once it ran out of attempts and was dropped.
func (bp *BufferProcessor) retryLater(item buffer.Item, cause error) bool {
	item.Retries++
	log := bp.logger.With(
		zap.String("item_id", item.ID),
		zap.String("key", item.Key),
		zap.Int("retries", item.Retries),
		zap.Error(cause),
	)
	if item.Retries >= bp.cfg.MaxRetries {
		log.Warn("dropping buffer item (max retries reached)")
		_ = bp.store.Remove(item)
		return false
	}
	log.Error("failed to replay buffer item")
	if err := bp.store.Requeue(item); err != nil {
		bp.logger.Error("failed to requeue buffer item", zap.Error(err))
	}
	return true
}

// BufferOperation writes straight to the primary store when it is reachable and buffers the item
// otherwise, or when the direct write fails.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return errNotConfigured
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.monitor != nil && !bp.monitor.IsOnline() {
		return bp.store.Enqueue(item)
	}

	if err := bp.replay(ctx, item); err != nil {
		bp.logger.Warn("immediate write failed, buffering", zap.String("key", item.Key), zap.Error(err))
		return bp.store.Enqueue(item)
	}
	// the value just written supersedes anything still queued for the key
	if err := bp.store.Discard(item.Key); err != nil {
		bp.logger.Warn("failed to discard superseded buffer items", zap.Error(err))
	}
	return nil
}

// Pending returns the newest buffered write for key.
func (bp *BufferProcessor) Pending(key string) (buffer.Item, bool, error) {
	if bp == nil || bp.store == nil {
		return buffer.Item{}, false, nil
	}
	return bp.store.Latest(key)
}

// Size returns the number of buffered items, or 0 when the buffer cannot be read.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) replay(ctx context.Context, item buffer.Item) error {
	switch item.Operation {
	case buffer.OperationPut:
		return bp.primary.Put(ctx, item.Key, item.Data)
	case buffer.OperationDelete:
		return bp.primary.Delete(ctx, item.Key)
	default:
		return fmt.Errorf("unsupported buffer operation %q", item.Operation)
	}
}
