package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/usecase"
)

// AccountStore is the slice of the account store the task manager needs.
type AccountStore interface {
	Current() (*domain.Account, error)
	SetTasks(ctx context.Context, username string, tasks []domain.Task) error
}

// Manager owns the working copy of the session user's tasks and the view window.
type Manager struct {
	accounts AccountStore
	renderer usecase.Renderer
	logger   *zap.Logger

	owner       string
	tasks       []domain.Task
	showingFull bool
}

func New(accounts AccountStore, renderer usecase.Renderer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		accounts: accounts,
		renderer: renderer,
		logger:   logger,
	}
}

// LoadForSession replaces the working list with the persisted one and collapses the view.
func (m *Manager) LoadForSession(ctx context.Context) error {
	acct, err := m.accounts.Current()
	if err != nil {
		return err
	}
	m.load(acct)
	m.refresh()
	return nil
}

// Reset drops the working list, e.g. after logout.
func (m *Manager) Reset() {
	m.owner = ""
	m.tasks = nil
	m.showingFull = false
}

// AddTask appends trimmed text. Blank input is ignored.
func (m *Manager) AddTask(ctx context.Context, raw string) error {
	acct, err := m.session()
	if err != nil {
		return err
	}
	task, ok := domain.NewTask(raw)
	if !ok {
		return nil
	}

	next := append(domain.CloneTasks(m.tasks), task)
	if err := m.persist(ctx, acct.Username, next); err != nil {
		return err
	}
	m.logger.Debug("task added", zap.String("username", acct.Username), zap.Int("position", len(next)-1))
	return nil
}

// AddFromSource asks source for text and adds it as a task.
func (m *Manager) AddFromSource(ctx context.Context, source usecase.TextSource) error {
	if _, err := m.session(); err != nil {
		return err
	}
	if source == nil {
		return domain.ErrInvalidPayload
	}
	text, err := source.RequestText()
	if err != nil {
		return err
	}
	return m.AddTask(ctx, text)
}

// ToggleCompletion flips the task at position in the full list.
func (m *Manager) ToggleCompletion(ctx context.Context, position int) error {
	acct, err := m.session()
	if err != nil {
		return err
	}
	if err := m.checkPosition(position); err != nil {
		return err
	}

	next := domain.CloneTasks(m.tasks)
	next[position].Completed = !next[position].Completed
	return m.persist(ctx, acct.Username, next)
}

// DeleteTask removes the task at position in the full list; later tasks move down by one.
func (m *Manager) DeleteTask(ctx context.Context, position int) error {
	acct, err := m.session()
	if err != nil {
		return err
	}
	if err := m.checkPosition(position); err != nil {
		return err
	}

	next := make([]domain.Task, 0, len(m.tasks)-1)
	next = append(next, m.tasks[:position]...)
	next = append(next, m.tasks[position+1:]...)
	return m.persist(ctx, acct.Username, next)
}

// ExpandView shows the whole list.
func (m *Manager) ExpandView(ctx context.Context) error {
	if _, err := m.session(); err != nil {
		return err
	}
	m.showingFull = true
	m.refresh()
	return nil
}

// View computes the current render list.
func (m *Manager) View() domain.TaskView {
	return domain.BuildView(m.tasks, m.showingFull)
}

// Tasks returns a copy of the working list.
func (m *Manager) Tasks() []domain.Task {
	return domain.CloneTasks(m.tasks)
}

// session resolves the active account, reloading the working list if the session changed
// underneath the manager.
func (m *Manager) session() (*domain.Account, error) {
	acct, err := m.accounts.Current()
	if err != nil {
		return nil, err
	}
	if acct.Username != m.owner {
		m.load(acct)
	}
	return acct, nil
}

func (m *Manager) load(acct *domain.Account) {
	m.owner = acct.Username
	m.tasks = domain.CloneTasks(acct.Tasks)
	m.showingFull = false
}

func (m *Manager) checkPosition(position int) error {
	if position < 0 || position >= len(m.tasks) {
		return domain.ErrIndexOutOfRange
	}
	return nil
}

func (m *Manager) persist(ctx context.Context, username string, next []domain.Task) error {
	if err := m.accounts.SetTasks(ctx, username, next); err != nil {
		m.logger.Error("failed to persist tasks", zap.String("username", username), zap.Error(err))
		return err
	}
	m.tasks = next
	m.refresh()
	return nil
}

func (m *Manager) refresh() {
	if m.renderer == nil {
		return
	}
	m.renderer.RenderTasks(m.View())
}
