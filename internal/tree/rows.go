package tree

import "strings"

// RowKind says which part of a node a row draws.
type RowKind int

const (
	// RowLeaf is a primitive or an empty container, drawn on one line.
	RowLeaf RowKind = iota
	// RowOpen is the opening line of an expanded container.
	RowOpen
	// RowClose is the closing line of an expanded container.
	RowClose
	// RowFolded is a collapsed container, drawn on one line with its summary.
	RowFolded
)

// Row is one line of a tree laid out for display.
type Row struct {
	Node  *Node
	Depth int
	Kind  RowKind
}

// Rows lays out the visible part of the tree under root, one entry per
// line. Children of collapsed nodes are omitted.
func Rows(root *Node) []Row {
	if root == nil {
		return nil
	}
	var rows []Row
	appendRows(&rows, root, 0)
	return rows
}

func appendRows(rows *[]Row, n *Node, depth int) {
	d := n.Display()
	switch {
	case !n.Collapsible():
		*rows = append(*rows, Row{Node: n, Depth: depth, Kind: RowLeaf})
	case d.SummaryVisible:
		*rows = append(*rows, Row{Node: n, Depth: depth, Kind: RowFolded})
	default:
		*rows = append(*rows, Row{Node: n, Depth: depth, Kind: RowOpen})
		for _, child := range n.Children {
			appendRows(rows, child, depth+1)
		}
		*rows = append(*rows, Row{Node: n, Depth: depth, Kind: RowClose})
	}
}

// Toggle returns the toggle drawn at the start of the row. Only opening
// and folded rows carry one.
func (r Row) Toggle() ToggleState {
	if r.Kind == RowOpen || r.Kind == RowFolded {
		return r.Node.Display().Toggle
	}
	return ToggleHidden
}

// Body returns the row's content without key label, separator, or toggle.
func (r Row) Body() string {
	n := r.Node
	switch r.Kind {
	case RowOpen:
		return n.Open()
	case RowClose:
		return n.Close()
	case RowFolded:
		return n.Open() + " " + n.Summary + " " + n.Close()
	default:
		if n.Kind.IsContainer() {
			return n.Open() + n.Close()
		}
		return n.Text
	}
}

// Text returns the plain text of the row without indentation or toggle.
func (r Row) Text() string {
	switch r.Kind {
	case RowOpen:
		return r.Node.Label() + r.Body()
	case RowClose:
		return r.Body() + r.Node.Separator()
	default:
		return r.Node.Label() + r.Body() + r.Node.Separator()
	}
}

// Plain renders rows as text, indenting each level by indent spaces and
// prefixing every line with its toggle glyph.
func Plain(rows []Row, indent int) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Repeat(" ", r.Depth*indent))
		b.WriteString(r.Toggle().Glyph())
		b.WriteByte(' ')
		b.WriteString(r.Text())
		b.WriteByte('\n')
	}
	return b.String()
}
