// Package tree renders JSON values as a tree of collapsible visual nodes and
// drives their collapse state.
//
// A tree is built once per value with Render and is never diffed or patched:
// rendering a new value produces a new tree. The only mutable state is the
// collapsed flag of each collapsible node. Toggle changes it for one node,
// and CollapseAll and ExpandAll change it for a whole subtree. Everything a
// host needs to draw a node is derived from that flag by Display.
package tree

import (
	"github.com/mcncl/jsonfmt/internal/models"
)

// ToggleState is the affordance a node's toggle control shows.
type ToggleState int

const (
	// ToggleHidden is used by leaves and empty containers.
	ToggleHidden ToggleState = iota
	// ToggleCollapse is shown by an expanded node; activating it collapses.
	ToggleCollapse
	// ToggleExpand is shown by a collapsed node; activating it expands.
	ToggleExpand
)

// Glyph returns the symbol drawn for the toggle.
func (s ToggleState) Glyph() string {
	switch s {
	case ToggleCollapse:
		return "▼"
	case ToggleExpand:
		return "▶"
	default:
		return " "
	}
}

// Title returns the action the toggle performs when activated.
func (s ToggleState) Title() string {
	switch s {
	case ToggleCollapse:
		return "Collapse"
	case ToggleExpand:
		return "Expand"
	default:
		return ""
	}
}

// Display is how a node should currently be drawn.
type Display struct {
	Toggle          ToggleState
	ChildrenVisible bool
	SummaryVisible  bool
}

// Node is the rendered form of one JSON value.
type Node struct {
	Kind models.Kind

	// HasKey is set for object members; Key then holds the quoted key.
	HasKey bool
	Key    string

	// Text is the display text of a leaf.
	Text string

	// Summary is the count shown while collapsed, e.g. "3 items". It is
	// empty exactly when the node is not collapsible.
	Summary string

	Children []*Node

	// IsLastSibling is false when a separator follows the node.
	IsLastSibling bool

	collapsed bool
}

// Collapsible reports whether the node is a non-empty array or object.
func (n *Node) Collapsible() bool {
	return n.Kind.IsContainer() && len(n.Children) > 0
}

// Collapsed reports the node's collapse state. It is always false for
// nodes that are not collapsible.
func (n *Node) Collapsed() bool {
	return n.collapsed
}

// Toggle flips the collapse state of n and nothing else. It reports whether
// the state changed, which is never the case for non-collapsible nodes.
func (n *Node) Toggle() bool {
	if !n.Collapsible() {
		return false
	}
	n.collapsed = !n.collapsed
	return true
}

// SetCollapsed drives n to the given state and reports whether it changed.
func (n *Node) SetCollapsed(collapsed bool) bool {
	if !n.Collapsible() || n.collapsed == collapsed {
		return false
	}
	n.collapsed = collapsed
	return true
}

// Display derives the node's presentation from its state.
func (n *Node) Display() Display {
	if !n.Collapsible() {
		return Display{Toggle: ToggleHidden, ChildrenVisible: n.Kind.IsContainer()}
	}
	if n.collapsed {
		return Display{Toggle: ToggleExpand, SummaryVisible: true}
	}
	return Display{Toggle: ToggleCollapse, ChildrenVisible: true}
}

// Open returns the opening bracket of a container, or "" for a leaf.
func (n *Node) Open() string {
	switch n.Kind {
	case models.Array:
		return "["
	case models.Object:
		return "{"
	default:
		return ""
	}
}

// Close returns the closing bracket of a container, or "" for a leaf.
func (n *Node) Close() string {
	switch n.Kind {
	case models.Array:
		return "]"
	case models.Object:
		return "}"
	default:
		return ""
	}
}

// Separator returns the glyph drawn after the node.
func (n *Node) Separator() string {
	if n.IsLastSibling {
		return ""
	}
	return ","
}

// Label returns the key prefix drawn before the value, e.g. `"name": `.
func (n *Node) Label() string {
	if !n.HasKey {
		return ""
	}
	return n.Key + ": "
}
