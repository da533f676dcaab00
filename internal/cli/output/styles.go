package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Path     lipgloss.Style
	Location lipgloss.Style
	Rule     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Hint     lipgloss.Style
	Header   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Path:     r.NewStyle().Bold(true).Underline(true),
		Location: r.NewStyle().Foreground(lipgloss.Color("8")),
		Rule:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Muted:    r.NewStyle().Faint(true),
		Success:  r.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Info:     r.NewStyle().Foreground(lipgloss.Color("4")),
		Hint:     r.NewStyle().Foreground(lipgloss.Color("6")),
		Header:   r.NewStyle().Bold(true),
	}
}

// Severity returns the style for a severity label.
func (s *Styles) Severity(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Hint
	}
}
