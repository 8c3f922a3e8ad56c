package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc releases one component.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Manager owns the process shutdown sequence. Components register as they are opened and are
// released newest first, so the account flush always runs before the storage it writes to closes.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	hooks []hook

	once sync.Once
	err  error
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register appends a hook. Nil hooks are ignored.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.hooks = append(m.hooks, hook{name: name, fn: fn})
	m.mu.Unlock()
}

// Shutdown runs every hook once, even after the deadline passes, and joins their errors.
// Repeated calls return the first result without running anything.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		m.mu.Lock()
		hooks := append([]hook(nil), m.hooks...)
		m.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			m.err = errors.Join(m.err, m.stop(ctx, hooks[i]))
		}
	})
	return m.err
}

func (m *Manager) stop(ctx context.Context, h hook) error {
	started := time.Now()
	err := h.fn(ctx)
	fields := []zap.Field{zap.String("component", h.name), zap.Duration("took", time.Since(started))}
	if err != nil {
		m.logger.Error("shutdown hook failed", append(fields, zap.Error(err))...)
		return err
	}
	m.logger.Debug("component stopped", fields...)
	return nil
}

// Listen derives a context that is cancelled on SIGINT or SIGTERM.
func (m *Manager) Listen(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, func() {
		if parent.Err() == nil {
			m.logger.Info("shutdown requested")
		}
	})
	return ctx, stop
}
