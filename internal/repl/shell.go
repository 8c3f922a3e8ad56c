// Package repl is the line-oriented terminal front end of the to-do app.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/usecase"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

// Application is the slice of *app.App the shell drives.
type Application interface {
	Execute(ctx context.Context, name string, payload interface{}) (*app.Result, error)
	Snapshot(ctx context.Context) (*app.Result, error)
	View(ctx context.Context) (domain.TaskView, error)
	CurrentUser(ctx context.Context) string
}

// Display is where the shell writes results.
type Display interface {
	usecase.Renderer
	SetTheme(theme string)
	Message(msg string)
	Error(err error)
}

// ErrQuit is returned by Handle when the user asked to leave.
var ErrQuit = errors.New("quit")

const helpText = `commands:
  register <user> <password>   create an account
  login <user> <password>      start a session
  logout                       end the session
  add <text>                   add a task
  voice                        dictate a task
  done <n>                     toggle task n
  rm <n>                       delete task n
  more                         show every task
  list                         show tasks
  themes                       show the theme catalog
  theme <id>                   switch theme
  premium                      unlock all premium themes
  whoami                       show the signed in user
  help                         this text
  quit                         leave`

// Shell reads commands and prompt answers from one input stream.
type Shell struct {
	app     Application
	display Display
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

func New(application Application, display Display, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		app:     application,
		display: display,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.greet(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(s.out, s.prompt(ctx))
		line, ok := s.readLine()
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return s.in.Err()
		}
		if err := s.Handle(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			s.display.Error(err)
		}
	}
}

// Handle runs one command line.
func (s *Shell) Handle(ctx context.Context, line string) error {
	cmd, rest := splitCommand(line)
	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "register", "login":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return fmt.Errorf("usage: %s <user> <password>", cmd)
		}
		name := app.CmdRegister
		if cmd == "login" {
			name = app.CmdAuthenticate
		}
		return s.exec(ctx, name, app.Credentials{Username: fields[0], Password: fields[1]})
	case "logout":
		return s.exec(ctx, app.CmdLogout, nil)
	case "add":
		return s.exec(ctx, app.CmdAddTask, app.AddTaskInput{Text: rest})
	case "voice":
		return s.exec(ctx, app.CmdAddFromSource, app.SourceInput{Source: usecase.TextFunc(s.dictate)})
	case "done", "rm":
		position, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return fmt.Errorf("usage: %s <n>", cmd)
		}
		name := app.CmdToggle
		if cmd == "rm" {
			name = app.CmdDelete
		}
		return s.exec(ctx, name, app.PositionInput{Position: position})
	case "more":
		return s.exec(ctx, app.CmdExpandView, nil)
	case "list":
		view, err := s.app.View(ctx)
		if err != nil {
			return err
		}
		s.display.RenderTasks(view)
		return nil
	case "themes":
		res, err := s.app.Snapshot(ctx)
		if err != nil {
			return err
		}
		s.display.RenderThemes(res.Snapshot.Theme, res.Snapshot.Themes)
		return nil
	case "theme":
		id := strings.TrimSpace(rest)
		if id == "" {
			return errors.New("usage: theme <id>")
		}
		return s.exec(ctx, app.CmdSelectTheme, app.SelectThemeInput{Theme: id, Confirmer: s})
	case "premium":
		return s.exec(ctx, app.CmdUnlockAllThemes, app.UnlockInput{Confirmer: s})
	case "whoami":
		res, err := s.app.Snapshot(ctx)
		if err != nil {
			return err
		}
		if res.Snapshot.Username == "" {
			s.display.Message("not signed in")
			return nil
		}
		status := "standard"
		if res.Snapshot.IsPremium {
			status = "premium"
		}
		s.display.Message(fmt.Sprintf("%s (%s, theme %s)", res.Snapshot.Username, status, res.Snapshot.Theme))
		return nil
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
}

// Confirm asks a yes/no question on the terminal. Anything but y or yes is a no.
func (s *Shell) Confirm(message string) bool {
	fmt.Fprintf(s.out, "%s [y/N]: ", message)
	answer, ok := s.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (s *Shell) dictate() (string, error) {
	fmt.Fprint(s.out, "listening... ")
	text, ok := s.readLine()
	if !ok {
		return "", errors.New("no dictation received")
	}
	return text, nil
}

func (s *Shell) exec(ctx context.Context, name string, payload interface{}) error {
	res, err := s.app.Execute(ctx, name, payload)
	if err != nil {
		s.logger.Debug("command failed", zap.String("command", name), zap.Error(err))
		return err
	}
	s.display.SetTheme(res.Snapshot.Theme)
	s.display.Message(res.Message)
	return nil
}

func (s *Shell) greet(ctx context.Context) {
	res, err := s.app.Snapshot(ctx)
	if err != nil || res.Snapshot.Username == "" {
		fmt.Fprintln(s.out, "welcome, register or login to start (help lists commands)")
		return
	}
	s.display.SetTheme(res.Snapshot.Theme)
	s.display.Message("welcome back, " + res.Snapshot.Username)
	s.display.RenderTasks(res.Snapshot.View)
}

func (s *Shell) prompt(ctx context.Context) string {
	if username := s.app.CurrentUser(ctx); username != "" {
		return username + "> "
	}
	return "> "
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}
