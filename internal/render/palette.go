package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/shxlzz/To-Do-List/domain"
)

// Palette holds the terminal colors of one theme. Colors are ANSI 256 codes.
type Palette struct {
	Text   lipgloss.Color
	Faint  lipgloss.Color
	Accent lipgloss.Color
	Done   lipgloss.Color
	Border lipgloss.Color
}

var palettes = map[string]Palette{
	domain.DefaultTheme: {Text: "252", Faint: "243", Accent: "39", Done: "70", Border: "240"},
	"dark":              {Text: "250", Faint: "238", Accent: "61", Done: "65", Border: "236"},
	"colorful":          {Text: "231", Faint: "245", Accent: "201", Done: "118", Border: "214"},
	"cartoon":           {Text: "230", Faint: "180", Accent: "208", Done: "154", Border: "226"},
	"anime":             {Text: "225", Faint: "182", Accent: "213", Done: "159", Border: "219"},
	"futuristic":        {Text: "123", Faint: "31", Accent: "51", Done: "46", Border: "37"},
	"vintage":           {Text: "223", Faint: "137", Accent: "173", Done: "107", Border: "94"},
	"premium-gold":      {Text: "230", Faint: "137", Accent: "220", Done: "178", Border: "214"},
	"premium-silver":    {Text: "255", Faint: "245", Accent: "250", Done: "152", Border: "247"},
	"premium-diamond":   {Text: "195", Faint: "110", Accent: "117", Done: "87", Border: "153"},
}

// PaletteFor returns the palette of a theme, or the default palette for unknown ids.
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[domain.DefaultTheme]
}
