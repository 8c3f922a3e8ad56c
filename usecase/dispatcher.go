package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shxlzz/To-Do-List/domain"
)

type CommandHandler func(ctx context.Context, payload interface{}) (interface{}, error)
type QueryHandler func(ctx context.Context, params interface{}) (interface{}, error)

// ErrUnknownOperation is wrapped by the dispatcher when no handler is registered under a name.
var ErrUnknownOperation = domain.NewError(domain.ErrCodeNotFound, "operation not registered")

// Dispatcher routes named commands and queries to their handlers.
// Commands run one at a time and never overlap a query; queries may overlap each other.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]CommandHandler
	queries  map[string]QueryHandler

	exec sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		commands: make(map[string]CommandHandler),
		queries:  make(map[string]QueryHandler),
	}
}

func (d *Dispatcher) RegisterCommand(name string, handler CommandHandler) {
	d.mu.Lock()
	d.commands[name] = handler
	d.mu.Unlock()
}

func (d *Dispatcher) RegisterQuery(name string, handler QueryHandler) {
	d.mu.Lock()
	d.queries[name] = handler
	d.mu.Unlock()
}

// ExecuteCommand runs a command exclusively. A context cancelled while waiting for the turn
// is reported without invoking the handler.
func (d *Dispatcher) ExecuteCommand(ctx context.Context, name string, payload interface{}) (interface{}, error) {
	d.mu.RLock()
	handler, ok := d.commands[name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("command %q: %w", name, ErrUnknownOperation)
	}

	d.exec.Lock()
	defer d.exec.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return handler(ctx, payload)
}

func (d *Dispatcher) ExecuteQuery(ctx context.Context, name string, params interface{}) (interface{}, error) {
	d.mu.RLock()
	handler, ok := d.queries[name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("query %q: %w", name, ErrUnknownOperation)
	}

	d.exec.RLock()
	defer d.exec.RUnlock()
	return handler(ctx, params)
}

// Commands lists the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedNames(d.commands)
}

// Queries lists the registered query names in sorted order.
func (d *Dispatcher) Queries() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedNames(d.queries)
}

func sortedNames[H any](handlers map[string]H) []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
