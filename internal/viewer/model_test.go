package viewer

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonfmt/internal/config"
	"github.com/mcncl/jsonfmt/internal/formatter"
	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/parser"
	"github.com/mcncl/jsonfmt/internal/tree"
)

type fakeClipboard struct {
	texts []string
	err   error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

// testHelper drives a Model the way the bubbletea runtime would.
type testHelper struct {
	t     *testing.T
	model Model
	clip  *fakeClipboard
}

func newTestHelper(t *testing.T, input string) *testHelper {
	t.Helper()
	v, err := parser.ParseString(input)
	require.NoError(t, err)

	clip := &fakeClipboard{}
	doc := models.Document{Title: "sample.json – JSON Formatter", Root: v}
	m := New(doc, tree.Render(v), Options{
		Indent:        2,
		CopyMode:      formatter.ModeMinify,
		StatusTimeout: time.Millisecond,
		Clipboard:     clip,
		Styles:        NewStyles(NewRenderer(&bytes.Buffer{}, true), config.DefaultTheme()),
	})
	return &testHelper{t: t, model: m, clip: clip}
}

func (h *testHelper) send(msg tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	return cmd
}

func (h *testHelper) key(r rune) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (h *testHelper) special(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

// run executes cmd and feeds its message back into the model.
func (h *testHelper) run(cmd tea.Cmd) tea.Cmd {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	return h.send(cmd())
}

func (h *testHelper) plain() string {
	return tree.Plain(h.model.rows, 2)
}

const sample = `{"a": 1, "b": [true, null, "x"], "c": {"d": {}}}`

func TestModel_InitialLayout(t *testing.T) {
	h := newTestHelper(t, sample)

	assert.Equal(t, 0, h.model.cursor)
	assert.Len(t, h.model.rows, 11)
	assert.Equal(t, "Object", h.model.badge)
	assert.Equal(t, "3 keys", h.model.detail)
	assert.NotNil(t, h.model.Init())
}

func TestModel_Navigation(t *testing.T) {
	h := newTestHelper(t, sample)

	h.key('j')
	h.special(tea.KeyDown)
	assert.Equal(t, 2, h.model.cursor)

	h.key('k')
	assert.Equal(t, 1, h.model.cursor)

	h.key('G')
	assert.Equal(t, len(h.model.rows)-1, h.model.cursor)

	h.special(tea.KeyDown)
	assert.Equal(t, len(h.model.rows)-1, h.model.cursor, "cursor stays on last row")

	h.key('g')
	assert.Equal(t, 0, h.model.cursor)

	h.special(tea.KeyUp)
	assert.Equal(t, 0, h.model.cursor, "cursor stays on first row")
}

func TestModel_ToggleKeepsCursorOnNode(t *testing.T) {
	h := newTestHelper(t, sample)

	// Row 2 opens "b"
	h.key('j')
	h.key('j')
	b := h.model.current()
	require.Equal(t, `"b"`, b.Key)

	h.special(tea.KeyEnter)
	assert.True(t, b.Collapsed())
	assert.Same(t, b, h.model.current())
	assert.Equal(t, tree.RowFolded, h.model.rows[h.model.cursor].Kind)
	assert.Contains(t, h.plain(), `▶ "b": [ 3 items ],`)

	h.special(tea.KeySpace)
	assert.False(t, b.Collapsed())
	assert.Same(t, b, h.model.current())
}

func TestModel_ToggleFromClosingRow(t *testing.T) {
	h := newTestHelper(t, sample)

	// Rows: {, "a", "b": [, true, null, "x", ], "c": {, "d": {}, }, }
	for i := 0; i < 6; i++ {
		h.key('j')
	}
	require.Equal(t, tree.RowClose, h.model.rows[h.model.cursor].Kind)
	b := h.model.current()

	h.special(tea.KeyEnter)
	assert.True(t, b.Collapsed())
	assert.Equal(t, 2, h.model.cursor)
}

func TestModel_ToggleLeafIsNoop(t *testing.T) {
	h := newTestHelper(t, sample)
	h.key('j')
	before := h.plain()

	h.special(tea.KeyEnter)
	assert.Equal(t, before, h.plain())
	assert.Equal(t, 1, h.model.cursor)
}

func TestModel_CollapseAllExpandAll(t *testing.T) {
	h := newTestHelper(t, sample)

	// Put the cursor on "x", deep inside "b"
	for i := 0; i < 5; i++ {
		h.key('j')
	}
	require.Equal(t, `"x"`, h.model.current().Text)

	h.key('C')
	assert.Len(t, h.model.rows, 1)
	assert.Equal(t, "▶ { 3 keys }\n", h.plain())
	// "x" and "b" are hidden, so the cursor falls back to the root
	assert.Equal(t, 0, h.model.cursor)
	assert.Same(t, h.model.root, h.model.current())

	h.key('E')
	assert.Len(t, h.model.rows, 11)
	stats := tree.Count(h.model.root)
	assert.Equal(t, 0, stats.Collapsed)
}

func TestModel_CollapseAllIsIdempotent(t *testing.T) {
	h := newTestHelper(t, sample)
	h.key('C')
	once := h.plain()
	h.key('C')
	assert.Equal(t, once, h.plain())
}

func TestModel_CopyDocument(t *testing.T) {
	h := newTestHelper(t, sample)

	cmd := h.key('y')
	tick := h.run(cmd)
	require.Len(t, h.clip.texts, 1)
	assert.Equal(t, `{"a":1,"b":[true,null,"x"],"c":{"d":{}}}`, h.clip.texts[0])
	assert.Equal(t, "Copied!", h.model.status)
	assert.Contains(t, h.model.View(), "Copied!")

	h.run(tick)
	assert.Equal(t, "", h.model.status)
}

func TestModel_CopyNode(t *testing.T) {
	h := newTestHelper(t, sample)

	// Collapsing does not change what is copied
	for i := 0; i < 7; i++ {
		h.key('j')
	}
	c := h.model.current()
	require.Equal(t, `"c"`, c.Key)
	h.special(tea.KeyEnter)

	h.run(h.key('Y'))
	require.Len(t, h.clip.texts, 1)
	assert.Equal(t, `{"d":{}}`, h.clip.texts[0])
}

func TestModel_StaleStatusTickIsIgnored(t *testing.T) {
	h := newTestHelper(t, sample)

	first := h.run(h.key('y'))
	second := h.run(h.key('Y'))
	assert.Equal(t, "Copied!", h.model.status)

	// The first tick belongs to an older status
	h.run(first)
	assert.Equal(t, "Copied!", h.model.status)

	h.run(second)
	assert.Equal(t, "", h.model.status)
}

func TestModel_CopyFailureBecomesStatus(t *testing.T) {
	h := newTestHelper(t, sample)
	h.clip.err = stderrors.New("xclip missing")

	h.run(h.key('y'))
	assert.NotEqual(t, "Copied!", h.model.status)
	assert.Contains(t, h.model.status, "xclip missing")
}

func TestModel_HelpToggle(t *testing.T) {
	h := newTestHelper(t, sample)
	assert.False(t, h.model.showHelp)

	h.key('?')
	assert.True(t, h.model.showHelp)
	assert.Contains(t, h.model.View(), "collapse all")

	h.key('?')
	assert.False(t, h.model.showHelp)
}

func TestModel_Quit(t *testing.T) {
	h := newTestHelper(t, sample)

	cmd := h.key('q')
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	cmd = h.special(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Scrolling(t *testing.T) {
	items := make([]string, 50)
	for i := range items {
		items[i] = "1"
	}
	h := newTestHelper(t, "["+strings.Join(items, ",")+"]")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 12})

	body := h.model.bodyHeight()
	require.Greater(t, body, 0)
	require.Less(t, body, len(h.model.rows))

	h.key('G')
	assert.Equal(t, len(h.model.rows)-1, h.model.cursor)
	assert.Equal(t, len(h.model.rows)-body, h.model.offset)

	h.key('g')
	assert.Equal(t, 0, h.model.offset)

	h.special(tea.KeyPgDown)
	assert.Equal(t, body, h.model.cursor)
	assert.LessOrEqual(t, h.model.offset, h.model.cursor)
	assert.Greater(t, h.model.offset+body, h.model.cursor)
}

func TestModel_View(t *testing.T) {
	h := newTestHelper(t, sample)
	view := h.model.View()

	assert.Contains(t, view, "sample.json – JSON Formatter")
	assert.Contains(t, view, "Object")
	assert.Contains(t, view, "3 keys")
	assert.Contains(t, view, `"b": [`)
	assert.Contains(t, view, `"d": {}`)
	assert.Contains(t, view, "1/11")
}

func TestModel_FooterShowsKindUnderCursor(t *testing.T) {
	h := newTestHelper(t, sample)
	assert.Contains(t, h.model.footerView(), "1/11  Object  0 collapsed")

	h.key('j')
	assert.Contains(t, h.model.footerView(), "Number")

	// Row 3 is true inside "b"
	h.key('j')
	h.key('j')
	assert.Contains(t, h.model.footerView(), "Boolean")

	h.key('j')
	assert.Contains(t, h.model.footerView(), "Null")
}
