package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BufferSizer reports how many writes are waiting for the backend.
type BufferSizer interface {
	Size() (int, error)
}

var errNoTarget = errors.New("no backend configured")

// Monitor periodically probes the storage backend and the write buffer.
type Monitor struct {
	backend string
	target  Pinger
	buffer  BufferSizer

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(backend string, target Pinger, buf BufferSizer, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		backend:  backend,
		target:   target,
		buffer:   buf,
		interval: interval,
		timeout:  3 * time.Second,
		stopCh:   make(chan struct{}),
		logger:   logger,
		status:   Status{Backend: backend},
	}
}

// Start probes once synchronously and then keeps probing in the background.
func (m *Monitor) Start() {
	m.Refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh probes the backend and the buffer now.
func (m *Monitor) Refresh() Status {
	now := time.Now()
	bufferOK, bufferSize := m.checkBuffer()
	status := Status{
		Backend:    m.backend,
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  now,
	}
	if err := m.checkBackend(); err != nil {
		status.LastError = err.Error()
	} else {
		status.Online = true
	}

	m.mu.Lock()
	prev := m.status
	if !status.Online {
		status.OfflineSince = prev.OfflineSince
		if status.OfflineSince.IsZero() {
			status.OfflineSince = now
		}
	}
	m.status = status
	m.mu.Unlock()

	if !prev.LastCheck.IsZero() && prev.Online != status.Online {
		fields := []zap.Field{zap.String("backend", m.backend), zap.Bool("online", status.Online)}
		if status.Online && !prev.OfflineSince.IsZero() {
			fields = append(fields, zap.Duration("outage", now.Sub(prev.OfflineSince)))
		} else if !status.Online {
			fields = append(fields, zap.String("error", status.LastError))
		}
		m.logger.Info("backend availability changed", fields...)
	}
	return status
}

func (m *Monitor) checkBackend() error {
	if m.target == nil {
		return errNoTarget
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.target.Ping(ctx)
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
