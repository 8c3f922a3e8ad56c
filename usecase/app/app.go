package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/usecase"
	"github.com/shxlzz/To-Do-List/usecase/account"
	"github.com/shxlzz/To-Do-List/usecase/task"
	"github.com/shxlzz/To-Do-List/usecase/theme"
)

// Command names.
const (
	CmdRegister        = "register"
	CmdAuthenticate    = "authenticate"
	CmdLogout          = "logout"
	CmdLoadForSession  = "load_for_session"
	CmdAddTask         = "add_task"
	CmdAddFromSource   = "add_from_source"
	CmdToggle          = "toggle_completion"
	CmdDelete          = "delete_task"
	CmdExpandView      = "expand_view"
	CmdSelectTheme     = "select_theme"
	CmdUnlockAllThemes = "unlock_all_themes"
	CmdRestore         = "restore"
	CmdFlush           = "flush"

	QrySnapshot = "snapshot"
	QryView     = "view"
	QrySession  = "session"
	QryThemes   = "list_themes"
)

type Credentials struct {
	Username string
	Password string
}

type AddTaskInput struct {
	Text string
}

type SourceInput struct {
	Source usecase.TextSource
}

type PositionInput struct {
	Position int
}

type SelectThemeInput struct {
	Theme     string
	Confirmer usecase.Confirmer
}

type UnlockInput struct {
	Confirmer usecase.Confirmer
}

// Snapshot is everything a display layer needs after an operation.
type Snapshot struct {
	Username  string               `json:"username,omitempty"`
	Theme     string               `json:"theme"`
	IsPremium bool                 `json:"is_premium"`
	View      domain.TaskView      `json:"view"`
	Themes    []domain.ThemeOption `json:"themes"`
}

// Result is returned by every command.
type Result struct {
	Snapshot Snapshot `json:"snapshot"`
	Outcome  string   `json:"outcome,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// App wires the account store, task manager and theme gate behind a serialized dispatcher.
type App struct {
	accounts   *account.Store
	tasks      *task.Manager
	themes     *theme.Gate
	dispatcher *usecase.Dispatcher
	logger     *zap.Logger
}

func New(accounts *account.Store, renderer usecase.Renderer, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		accounts:   accounts,
		tasks:      task.New(accounts, renderer, logger.Named("tasks")),
		themes:     theme.New(accounts, renderer, logger.Named("themes")),
		dispatcher: usecase.NewDispatcher(),
		logger:     logger,
	}
	a.register()
	return a
}

// Execute runs a named command. Commands never interleave.
func (a *App) Execute(ctx context.Context, name string, payload interface{}) (*Result, error) {
	out, err := a.dispatcher.ExecuteCommand(ctx, name, payload)
	if err != nil {
		return nil, err
	}
	res, _ := out.(*Result)
	return res, nil
}

// Snapshot returns the current state without mutating anything.
func (a *App) Snapshot(ctx context.Context) (*Result, error) {
	out, err := a.dispatcher.ExecuteQuery(ctx, QrySnapshot, nil)
	if err != nil {
		return nil, err
	}
	res, _ := out.(*Result)
	return res, nil
}

// CurrentUser returns the session username, or "".
func (a *App) CurrentUser(ctx context.Context) string {
	out, err := a.dispatcher.ExecuteQuery(ctx, QrySession, nil)
	if err != nil {
		return ""
	}
	username, _ := out.(string)
	return username
}

// View returns the render list of the session user.
func (a *App) View(ctx context.Context) (domain.TaskView, error) {
	out, err := a.dispatcher.ExecuteQuery(ctx, QryView, nil)
	if err != nil {
		return domain.TaskView{}, err
	}
	view, _ := out.(domain.TaskView)
	return view, nil
}

// ListThemes returns the catalog with the session account's lock state.
func (a *App) ListThemes(ctx context.Context) ([]domain.ThemeOption, error) {
	out, err := a.dispatcher.ExecuteQuery(ctx, QryThemes, nil)
	if err != nil {
		return nil, err
	}
	options, _ := out.([]domain.ThemeOption)
	return options, nil
}

// Restore loads the tasks of a session that survived a restart.
func (a *App) Restore(ctx context.Context) (*Result, error) {
	return a.Execute(ctx, CmdRestore, nil)
}

// Flush writes the account directory, e.g. at shutdown.
func (a *App) Flush(ctx context.Context) error {
	_, err := a.Execute(ctx, CmdFlush, nil)
	return err
}

func (a *App) register() {
	d := a.dispatcher

	d.RegisterCommand(CmdRegister, func(ctx context.Context, payload interface{}) (interface{}, error) {
		in, ok := payload.(Credentials)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		if err := a.accounts.Register(ctx, in.Username, in.Password); err != nil {
			return nil, err
		}
		return a.result("registered", "Registration successful! Please log in."), nil
	})

	d.RegisterCommand(CmdAuthenticate, func(ctx context.Context, payload interface{}) (interface{}, error) {
		in, ok := payload.(Credentials)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		if err := a.accounts.Authenticate(ctx, in.Username, in.Password); err != nil {
			return nil, err
		}
		return a.startSession(ctx)
	})

	d.RegisterCommand(CmdRestore, func(ctx context.Context, _ interface{}) (interface{}, error) {
		if a.accounts.Session() == nil {
			return a.result("", ""), nil
		}
		return a.startSession(ctx)
	})

	d.RegisterCommand(CmdLogout, a.owned(func(ctx context.Context, _ interface{}) (interface{}, error) {
		if err := a.accounts.Logout(ctx); err != nil {
			return nil, err
		}
		a.tasks.Reset()
		return a.result("logged_out", ""), nil
	}))

	d.RegisterCommand(CmdLoadForSession, a.owned(func(ctx context.Context, _ interface{}) (interface{}, error) {
		if err := a.tasks.LoadForSession(ctx); err != nil {
			return nil, err
		}
		return a.result("", ""), nil
	}))

	d.RegisterCommand(CmdAddTask, a.owned(func(ctx context.Context, payload interface{}) (interface{}, error) {
		in, ok := payload.(AddTaskInput)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		if err := a.tasks.AddTask(ctx, in.Text); err != nil {
			return nil, err
		}
		return a.result("", ""), nil
	}))

	d.RegisterCommand(CmdAddFromSource, a.owned(func(ctx context.Context, payload interface{}) (interface{}, error) {
		in, ok := payload.(SourceInput)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		if err := a.tasks.AddFromSource(ctx, in.Source); err != nil {
			return nil, err
		}
		return a.result("", ""), nil
	}))

	d.RegisterCommand(CmdToggle, a.owned(a.positional(a.tasks.ToggleCompletion)))
	d.RegisterCommand(CmdDelete, a.owned(a.positional(a.tasks.DeleteTask)))

	d.RegisterCommand(CmdExpandView, a.owned(func(ctx context.Context, _ interface{}) (interface{}, error) {
		if err := a.tasks.ExpandView(ctx); err != nil {
			return nil, err
		}
		return a.result("", ""), nil
	}))

	d.RegisterCommand(CmdSelectTheme, a.owned(func(ctx context.Context, payload interface{}) (interface{}, error) {
		in, ok := payload.(SelectThemeInput)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		outcome, err := a.themes.SelectTheme(ctx, in.Theme, in.Confirmer)
		if err != nil {
			return nil, err
		}
		msg := outcome.Message()
		if outcome == theme.OutcomeDeclined {
			msg = "Premium theme not applied. Reverting to your previous theme."
		}
		return a.result(string(outcome), msg), nil
	}))

	d.RegisterCommand(CmdUnlockAllThemes, a.owned(func(ctx context.Context, payload interface{}) (interface{}, error) {
		in, ok := payload.(UnlockInput)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		outcome, err := a.themes.UnlockAllThemes(ctx, in.Confirmer)
		if err != nil {
			return nil, err
		}
		msg := outcome.Message()
		if outcome == theme.OutcomeDeclined {
			msg = "Premium themes remain locked."
		}
		return a.result(string(outcome), msg), nil
	}))

	d.RegisterCommand(CmdFlush, func(ctx context.Context, _ interface{}) (interface{}, error) {
		if err := a.accounts.Flush(ctx); err != nil {
			return nil, err
		}
		return a.result("", ""), nil
	})

	d.RegisterQuery(QrySnapshot, usecase.QueryHandler(a.owned(func(ctx context.Context, _ interface{}) (interface{}, error) {
		return a.result("", ""), nil
	})))

	d.RegisterQuery(QrySession, func(ctx context.Context, _ interface{}) (interface{}, error) {
		if sess := a.accounts.Session(); sess != nil {
			return sess.Username, nil
		}
		return "", nil
	})

	d.RegisterQuery(QryView, usecase.QueryHandler(a.owned(func(ctx context.Context, _ interface{}) (interface{}, error) {
		if a.accounts.Session() == nil {
			return nil, domain.ErrNoActiveSession
		}
		return a.tasks.View(), nil
	})))

	d.RegisterQuery(QryThemes, usecase.QueryHandler(a.owned(func(ctx context.Context, _ interface{}) (interface{}, error) {
		return a.themes.ListThemes()
	})))
}

type ownerKey struct{}

// ForUser binds ctx to username. Session-bound operations run with the returned context fail with
// NoActiveSession unless username still holds the session when they execute.
func ForUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ownerKey{}, username)
}

// owned rejects the call when ctx was bound to a user other than the session holder.
// The check runs inside the dispatcher, so a login cannot slip in before the handler.
func (a *App) owned(h usecase.CommandHandler) usecase.CommandHandler {
	return func(ctx context.Context, payload interface{}) (interface{}, error) {
		want, bound := ctx.Value(ownerKey{}).(string)
		if bound {
			if sess := a.accounts.Session(); !sess.IsActive() || sess.Username != want {
				a.logger.Info("session changed before operation", zap.String("expected", want))
				return nil, domain.ErrNoActiveSession
			}
		}
		return h(ctx, payload)
	}
}

func (a *App) positional(fn func(ctx context.Context, position int) error) usecase.CommandHandler {
	return func(ctx context.Context, payload interface{}) (interface{}, error) {
		in, ok := payload.(PositionInput)
		if !ok {
			return nil, domain.ErrInvalidPayload
		}
		if err := fn(ctx, in.Position); err != nil {
			return nil, err
		}
		return a.result("", ""), nil
	}
}

// startSession loads the session's tasks and applies the theme guard.
func (a *App) startSession(ctx context.Context) (*Result, error) {
	if err := a.tasks.LoadForSession(ctx); err != nil {
		return nil, err
	}
	outcome, err := a.themes.EnsureConsistent(ctx)
	if err != nil {
		return nil, err
	}
	if outcome == theme.OutcomeFallback {
		return a.result(string(outcome), outcome.Message()), nil
	}
	return a.result("authenticated", ""), nil
}

func (a *App) result(outcome, message string) *Result {
	return &Result{
		Snapshot: a.snapshot(),
		Outcome:  outcome,
		Message:  message,
	}
}

func (a *App) snapshot() Snapshot {
	acct, err := a.accounts.Current()
	if err != nil {
		return Snapshot{
			Theme:  domain.DefaultTheme,
			View:   domain.BuildView(nil, false),
			Themes: domain.ThemeOptions(false),
		}
	}
	return Snapshot{
		Username:  acct.Username,
		Theme:     acct.Theme,
		IsPremium: acct.IsPremium,
		View:      a.tasks.View(),
		Themes:    domain.ThemeOptions(acct.IsPremium),
	}
}
