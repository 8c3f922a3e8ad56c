package testutil

import (
	"github.com/shxlzz/To-Do-List/domain"
)

// ScriptedConfirmer answers prompts from a fixed script and records the messages it saw.
type ScriptedConfirmer struct {
	Answers  []bool
	Messages []string
}

func (c *ScriptedConfirmer) Confirm(message string) bool {
	c.Messages = append(c.Messages, message)
	if len(c.Answers) == 0 {
		return false
	}
	answer := c.Answers[0]
	c.Answers = c.Answers[1:]
	return answer
}

// RecordingRenderer keeps every render it receives.
type RecordingRenderer struct {
	Views       []domain.TaskView
	ThemeCalls  int
	ActiveTheme string
	Options     []domain.ThemeOption
}

func (r *RecordingRenderer) RenderTasks(view domain.TaskView) {
	r.Views = append(r.Views, view)
}

func (r *RecordingRenderer) RenderThemes(active string, options []domain.ThemeOption) {
	r.ThemeCalls++
	r.ActiveTheme = active
	r.Options = options
}

// LastView returns the most recent task view, or the zero view.
func (r *RecordingRenderer) LastView() domain.TaskView {
	if len(r.Views) == 0 {
		return domain.TaskView{}
	}
	return r.Views[len(r.Views)-1]
}
