package viewer

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mcncl/jsonfmt/internal/config"
	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/tree"
)

// Styles colors each part of a rendered tree.
type Styles struct {
	Key      lipgloss.Style
	String   lipgloss.Style
	Number   lipgloss.Style
	Boolean  lipgloss.Style
	Null     lipgloss.Style
	Brace    lipgloss.Style
	Summary  lipgloss.Style
	Toggle   lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Badge    lipgloss.Style
	Detail   lipgloss.Style
	Status   lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w. With noColor set every
// style renders as plain text.
func NewRenderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// NewStyles builds styles from a theme. Empty theme colors leave the
// terminal's default foreground.
func NewStyles(r *lipgloss.Renderer, theme config.ThemeConfig) Styles {
	fg := func(color string) lipgloss.Style {
		s := r.NewStyle()
		if color != "" {
			s = s.Foreground(lipgloss.Color(color))
		}
		return s
	}

	s := Styles{
		Key:     fg(theme.Key),
		String:  fg(theme.String),
		Number:  fg(theme.Number),
		Boolean: fg(theme.Boolean),
		Null:    fg(theme.Null).Italic(true),
		Brace:   fg(theme.Brace),
		Summary: fg(theme.Summary).Italic(true),
		Toggle:  fg(theme.Toggle),
		Header:  fg(theme.Header).Bold(true),
		Detail:  fg(theme.Summary),
		Status:  fg(theme.String).Bold(true),
	}
	s.Selected = r.NewStyle()
	if theme.Selected != "" {
		s.Selected = s.Selected.Background(lipgloss.Color(theme.Selected))
	}
	s.Badge = r.NewStyle().Bold(true).Padding(0, 1)
	if theme.Header != "" {
		s.Badge = s.Badge.Background(lipgloss.Color(theme.Header)).Foreground(lipgloss.Color("#FFFFFF"))
	}
	return s
}

func (s Styles) value(n *tree.Node) lipgloss.Style {
	switch n.Kind {
	case models.String:
		return s.String
	case models.Number:
		return s.Number
	case models.Bool:
		return s.Boolean
	case models.Null:
		return s.Null
	default:
		return s.Brace
	}
}

// Line renders one row: indentation, toggle, key label, body, separator.
// Stripped of color it matches tree.Plain.
func (s Styles) Line(r tree.Row, indent int) string {
	n := r.Node
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", r.Depth*indent))
	b.WriteString(s.Toggle.Render(r.Toggle().Glyph()))
	b.WriteByte(' ')

	if r.Kind != tree.RowClose && n.HasKey {
		b.WriteString(s.Key.Render(n.Key))
		b.WriteString(s.Brace.Render(": "))
	}

	switch r.Kind {
	case tree.RowOpen:
		b.WriteString(s.Brace.Render(n.Open()))
		return b.String()
	case tree.RowClose:
		b.WriteString(s.Brace.Render(n.Close()))
	case tree.RowFolded:
		b.WriteString(s.Brace.Render(n.Open()))
		b.WriteByte(' ')
		b.WriteString(s.Summary.Render(n.Summary))
		b.WriteByte(' ')
		b.WriteString(s.Brace.Render(n.Close()))
	default:
		b.WriteString(s.value(n).Render(r.Body()))
	}
	b.WriteString(s.Brace.Render(n.Separator()))
	return b.String()
}

// Print writes every visible row of the tree under root to w.
func Print(w io.Writer, root *tree.Node, indent int, s Styles) error {
	var b strings.Builder
	for _, r := range tree.Rows(root) {
		b.WriteString(s.Line(r, indent))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
