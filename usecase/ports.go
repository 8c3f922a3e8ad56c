package usecase

import "github.com/shxlzz/To-Do-List/domain"

// Confirmer is the yes/no prompt used before unlocking premium themes.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}

// Answer is a Confirmer that always gives the same response.
type Answer bool

func (a Answer) Confirm(string) bool {
	return bool(a)
}

// TextSource supplies raw task text, e.g. from voice dictation.
type TextSource interface {
	RequestText() (string, error)
}

// TextFunc adapts a function to TextSource.
type TextFunc func() (string, error)

func (f TextFunc) RequestText() (string, error) {
	return f()
}

// Renderer receives view refreshes. The core never reads back from it.
type Renderer interface {
	RenderTasks(view domain.TaskView)
	RenderThemes(active string, options []domain.ThemeOption)
}
