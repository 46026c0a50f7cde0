// Package viewer shows a rendered JSON tree in the terminal, either as a
// static listing or as an interactive bubbletea program.
package viewer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mcncl/jsonfmt/internal/errors"
	"github.com/mcncl/jsonfmt/internal/formatter"
	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/tree"
)

// DefaultStatusTimeout is how long the "Copied!" status stays visible.
const DefaultStatusTimeout = 2 * time.Second

// Options configures a Model.
type Options struct {
	Indent        int
	CopyMode      formatter.Mode
	StatusTimeout time.Duration
	Clipboard     Clipboard
	Styles        Styles
	Logger        *log.Logger
}

// copiedMsg reports the result of a clipboard write.
type copiedMsg struct {
	what string
	err  error
}

// clearStatusMsg expires the status set under seq.
type clearStatusMsg struct {
	seq int
}

// Model is the interactive tree viewer.
type Model struct {
	doc     models.Document
	root    *tree.Node
	parents map[*tree.Node]*tree.Node
	rows    []tree.Row

	cursor int
	offset int
	width  int
	height int

	keys     KeyMap
	help     help.Model
	showHelp bool

	status    string
	statusSeq int

	badge  string
	detail string

	opts      Options
	formatter *formatter.Formatter
}

// New creates a viewer for doc, whose rendered tree is root.
func New(doc models.Document, root *tree.Node, opts Options) Model {
	if opts.Indent <= 0 {
		opts.Indent = formatter.DefaultIndent
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = DefaultStatusTimeout
	}
	if opts.CopyMode == "" {
		opts.CopyMode = formatter.ModePretty
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	badge, detail := formatter.Describe(doc.Root)
	m := Model{
		doc:       doc,
		root:      root,
		parents:   parentIndex(root),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		badge:     badge,
		detail:    detail,
		opts:      opts,
		formatter: formatter.NewFormatter(opts.Indent),
	}
	m.rows = tree.Rows(root)
	return m
}

func parentIndex(root *tree.Node) map[*tree.Node]*tree.Node {
	parents := make(map[*tree.Node]*tree.Node)
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		for _, child := range n.Children {
			parents[child] = n
		}
		return true
	})
	return parents
}

// Run starts the interactive viewer and blocks until the user quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return errors.NewViewError("viewer exited with an error", err)
	}
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.doc.Title)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case copiedMsg:
		if msg.err != nil {
			m.opts.Logger.Warn("copy failed", "err", msg.err)
			return m.setStatus(errors.UserFriendlyError(msg.err))
		}
		m.opts.Logger.Debug("copied to clipboard", "what", msg.what)
		return m.setStatus("Copied!")

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.ensureVisible()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.rows))
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.bodyHeight())

	case key.Matches(msg, m.keys.Toggle):
		if n := m.current(); n != nil && n.Toggle() {
			m.opts.Logger.Debug("toggled node", "collapsed", n.Collapsed())
			m.relayout(n)
		}

	case key.Matches(msg, m.keys.CollapseAll):
		changed := tree.CollapseAll(m.root)
		m.opts.Logger.Debug("collapse all", "changed", changed)
		m.relayout(m.current())

	case key.Matches(msg, m.keys.ExpandAll):
		changed := tree.ExpandAll(m.root)
		m.opts.Logger.Debug("expand all", "changed", changed)
		m.relayout(m.current())

	case key.Matches(msg, m.keys.Copy):
		return m, m.copy(m.doc.Root, "document")

	case key.Matches(msg, m.keys.CopyNode):
		n := m.current()
		if n == nil {
			return m, nil
		}
		v, err := tree.Reconstruct(n)
		if err != nil {
			return m.setStatus(errors.UserFriendlyError(errors.NewClipboardError("failed to read node", err)))
		}
		return m, m.copy(v, "node")
	}
	return m, nil
}

// copy serializes v now and writes it to the clipboard in a command.
func (m Model) copy(v models.Value, what string) tea.Cmd {
	text, err := m.formatter.Format(v, m.opts.CopyMode)
	clip := m.opts.Clipboard
	return func() tea.Msg {
		if err != nil {
			return copiedMsg{what: what, err: errors.NewClipboardError("failed to serialize JSON", err)}
		}
		return copiedMsg{what: what, err: clip.WriteAll(text)}
	}
}

// setStatus shows text until the status timeout passes or a newer status
// replaces it.
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq
	return m, tea.Tick(m.opts.StatusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) current() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Node
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	m.ensureVisible()
}

// relayout rebuilds the rows and puts the cursor back on focus, or on its
// nearest visible ancestor when focus is now hidden.
func (m *Model) relayout(focus *tree.Node) {
	m.rows = tree.Rows(m.root)
	m.cursor = 0
	for n := focus; n != nil; n = m.parents[n] {
		if i := m.rowOf(n); i >= 0 {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) rowOf(n *tree.Node) int {
	for i, r := range m.rows {
		if r.Node == n && r.Kind != tree.RowClose {
			return i
		}
	}
	return -1
}

func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	return max(1, m.height-lipgloss.Height(m.headerView())-lipgloss.Height(m.footerView()))
}

func (m *Model) ensureVisible() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, max(0, len(m.rows)-h)))
}

func (m Model) headerView() string {
	s := m.opts.Styles
	parts := []string{s.Header.Render(m.doc.Title), s.Badge.Render(m.badge)}
	if m.detail != "" {
		parts = append(parts, s.Detail.Render(m.detail))
	}
	return strings.Join(parts, " ")
}

func (m Model) footerView() string {
	if m.status != "" {
		return m.opts.Styles.Status.Render(m.status)
	}
	stats := tree.Count(m.root)
	text := fmt.Sprintf("%d/%d  %d collapsed", m.cursor+1, len(m.rows), stats.Collapsed)
	if n := m.current(); n != nil {
		text = fmt.Sprintf("%d/%d  %s  %d collapsed", m.cursor+1, len(m.rows), formatter.KindLabel(n.Kind), stats.Collapsed)
	}
	position := m.opts.Styles.Detail.Render(text)
	return position + "  " + m.help.View(m.keys)
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')

	end := min(len(m.rows), m.offset+m.bodyHeight())
	for i := m.offset; i < end; i++ {
		line := m.opts.Styles.Line(m.rows[i], m.opts.Indent)
		if i == m.cursor {
			line = m.opts.Styles.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString(m.footerView())
	return b.String()
}
