package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Colour palette for terminal output.
var (
	colourPrimary   = lipgloss.Color("#7C3AED") // Purple
	colourSecondary = lipgloss.Color("#06B6D4") // Cyan
	colourMuted     = lipgloss.Color("#6C7086") // Medium gray
	colourError     = lipgloss.Color("#F38BA8") // Red
)

// palette renders speaker labels and secondary text. Styling is only
// applied when writing to a terminal.
type palette struct {
	styled bool
	you    lipgloss.Style
	ai     lipgloss.Style
	muted  lipgloss.Style
	err    lipgloss.Style
}

func newPalette(w io.Writer) palette {
	f, ok := w.(*os.File)
	return palette{
		styled: ok && term.IsTerminal(int(f.Fd())),
		you:    lipgloss.NewStyle().Foreground(colourSecondary).Bold(true),
		ai:     lipgloss.NewStyle().Foreground(colourPrimary).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(colourMuted),
		err:    lipgloss.NewStyle().Foreground(colourError),
	}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p palette) You(text string) string   { return p.render(p.you, text) }
func (p palette) AI(text string) string    { return p.render(p.ai, text) }
func (p palette) Muted(text string) string { return p.render(p.muted, text) }
func (p palette) Error(text string) string { return p.render(p.err, text) }
