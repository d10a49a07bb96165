package bar

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// tone is the severity a segment is painted with.
type tone int

const (
	toneAlert  tone = iota // red
	toneNotice             // yellow
)

type painter interface {
	paint(s string, t tone) string
}

// painterFor returns the painter matching a format's colour support.
func painterFor(f Format) painter {
	switch f {
	case Mac:
		return newANSIPainter()
	case I3Blocks, I3StatusRust:
		return pangoPainter{}
	default:
		return plainPainter{}
	}
}

// ansiPainter emits 16-colour ANSI escapes whatever terminal is attached, since
// xbar parses them from a pipe.
type ansiPainter struct {
	styles map[tone]lipgloss.Style
}

func newANSIPainter() ansiPainter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return ansiPainter{styles: map[tone]lipgloss.Style{
		toneAlert:  r.NewStyle().Foreground(lipgloss.Color("1")),
		toneNotice: r.NewStyle().Foreground(lipgloss.Color("3")),
	}}
}

func (p ansiPainter) paint(s string, t tone) string {
	return p.styles[t].Render(s)
}

type pangoPainter struct{}

func (pangoPainter) paint(s string, t tone) string {
	color := "red"
	if t == toneNotice {
		color = "yellow"
	}
	return fmt.Sprintf("<span color='%s'><span font='Jeedom'>%s</span></span>", color, s)
}

type plainPainter struct{}

func (plainPainter) paint(s string, _ tone) string {
	return s
}
