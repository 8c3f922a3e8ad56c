package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/shxlzz/To-Do-List/domain"
)

// Terminal draws task views and the theme catalog with the colors of the active theme.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	theme    string
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		theme:    domain.DefaultTheme,
	}
}

// SetTheme switches the palette used for later output.
func (t *Terminal) SetTheme(theme string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.theme = theme
}

func (t *Terminal) RenderTasks(view domain.TaskView) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := PaletteFor(t.theme)

	title := t.renderer.NewStyle().Bold(true).Foreground(p.Accent)
	text := t.renderer.NewStyle().Foreground(p.Text)
	done := t.renderer.NewStyle().Foreground(p.Done).Strikethrough(true)
	faint := t.renderer.NewStyle().Foreground(p.Faint)

	var b strings.Builder
	b.WriteString(title.Render(fmt.Sprintf("Tasks (%d)", view.Total)))
	b.WriteString("\n")
	if view.Total == 0 {
		b.WriteString(faint.Render("  nothing to do yet"))
		b.WriteString("\n")
	}
	for _, item := range view.Items {
		box, style := "[ ]", text
		if item.Task.Completed {
			box, style = "[x]", done
		}
		fmt.Fprintf(&b, "  %s %s %s\n", faint.Render(fmt.Sprintf("%2d", item.Position)), box, style.Render(item.Task.Text))
	}
	if view.ShowMore {
		hidden := view.Total - len(view.Items)
		b.WriteString(faint.Render(fmt.Sprintf("  ... %d more, type 'more' to view all", hidden)))
		b.WriteString("\n")
	}
	fmt.Fprint(t.out, t.box(p).Render(strings.TrimRight(b.String(), "\n")), "\n")
}

func (t *Terminal) RenderThemes(active string, options []domain.ThemeOption) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.theme = active
	p := PaletteFor(active)

	title := t.renderer.NewStyle().Bold(true).Foreground(p.Accent)
	text := t.renderer.NewStyle().Foreground(p.Text)
	faint := t.renderer.NewStyle().Foreground(p.Faint)

	var b strings.Builder
	b.WriteString(title.Render("Themes"))
	for _, opt := range options {
		marker := " "
		if opt.ID == active {
			marker = "*"
		}
		style := text
		if opt.Locked {
			style = faint
		}
		fmt.Fprintf(&b, "\n  %s %-16s %s", marker, opt.ID, style.Render(opt.Label))
	}
	fmt.Fprint(t.out, t.box(p).Render(b.String()), "\n")
}

// Message prints an informational line.
func (t *Terminal) Message(msg string) {
	if msg == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p := PaletteFor(t.theme)
	fmt.Fprintln(t.out, t.renderer.NewStyle().Foreground(p.Accent).Render(msg))
}

// Error prints an error line.
func (t *Terminal) Error(err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, t.renderer.NewStyle().Foreground(lipgloss.Color("196")).Render("error: "+err.Error()))
}

func (t *Terminal) box(p Palette) lipgloss.Style {
	return t.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
}
