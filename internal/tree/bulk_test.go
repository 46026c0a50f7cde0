package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nested = `{"users": [{"name": "ann", "tags": ["a", "b"]}, {"name": "bob", "tags": []}], "meta": {"page": {"n": 1}}, "ok": true}`

func collapseStates(root *Node) []bool {
	var states []bool
	Walk(root, func(n *Node, _ int) bool {
		if n.Collapsible() {
			states = append(states, n.Collapsed())
		}
		return true
	})
	return states
}

func TestCollapseAll_ReachesEveryDepth(t *testing.T) {
	root := mustRender(t, nested)

	changed := CollapseAll(root)

	stats := Count(root)
	assert.Equal(t, stats.Collapsible, changed)
	assert.Equal(t, stats.Collapsible, stats.Collapsed)
	Walk(root, func(n *Node, _ int) bool {
		if !n.Collapsible() {
			assert.False(t, n.Collapsed(), "non-collapsible nodes are skipped")
			assert.Equal(t, ToggleHidden, n.Display().Toggle)
			return true
		}
		d := n.Display()
		assert.True(t, n.Collapsed())
		assert.Equal(t, ToggleExpand, d.Toggle)
		assert.False(t, d.ChildrenVisible)
		assert.True(t, d.SummaryVisible)
		return true
	})
}

func TestExpandAll_FromMixedState(t *testing.T) {
	root := mustRender(t, nested)
	root.Children[0].Toggle()             // users
	root.Children[1].Children[0].Toggle() // meta.page

	ExpandAll(root)

	for _, collapsed := range collapseStates(root) {
		assert.False(t, collapsed)
	}
	Walk(root, func(n *Node, _ int) bool {
		if n.Collapsible() {
			d := n.Display()
			assert.Equal(t, ToggleCollapse, d.Toggle)
			assert.True(t, d.ChildrenVisible)
			assert.False(t, d.SummaryVisible)
		}
		return true
	})
}

func TestCollapseThenExpand_LeavesEverythingExpanded(t *testing.T) {
	root := mustRender(t, nested)
	root.Children[1].Toggle()

	CollapseAll(root)
	ExpandAll(root)

	assert.Equal(t, 0, Count(root).Collapsed)
}

func TestBulkOperations_AreIdempotent(t *testing.T) {
	root := mustRender(t, nested)
	root.Children[0].Children[0].Toggle()

	CollapseAll(root)
	once := collapseStates(root)
	assert.Equal(t, 0, CollapseAll(root), "second collapse changes nothing")
	assert.Equal(t, once, collapseStates(root))

	ExpandAll(root)
	once = collapseStates(root)
	assert.Equal(t, 0, ExpandAll(root), "second expand changes nothing")
	assert.Equal(t, once, collapseStates(root))
}

func TestBulkOperations_OnSubtree(t *testing.T) {
	root := mustRender(t, nested)
	users := root.Children[0]

	CollapseAll(users)

	assert.False(t, root.Collapsed(), "ancestors of the subtree are untouched")
	assert.False(t, root.Children[1].Collapsed(), "siblings of the subtree are untouched")
	Walk(users, func(n *Node, _ int) bool {
		if n.Collapsible() {
			assert.True(t, n.Collapsed())
		}
		return true
	})
}

func TestBulkOperations_SkipLeavesAndNil(t *testing.T) {
	leaf := mustRender(t, `42`)
	assert.Equal(t, 0, CollapseAll(leaf))
	assert.Equal(t, 0, ExpandAll(leaf))
	assert.False(t, leaf.Collapsed())

	empty := mustRender(t, `[]`)
	assert.Equal(t, 0, CollapseAll(empty))

	assert.NotPanics(t, func() {
		CollapseAll(nil)
		ExpandAll(nil)
	})
}

func TestToggle_IsAnInvolution(t *testing.T) {
	root := mustRender(t, nested)

	Walk(root, func(n *Node, _ int) bool {
		before := n.Collapsed()
		n.Toggle()
		n.Toggle()
		assert.Equal(t, before, n.Collapsed())
		return true
	})
}

func TestToggle_OnlyAffectsItself(t *testing.T) {
	root := mustRender(t, `{"a":1,"b":[true,null,"x"]}`)
	arr := root.Children[1]

	require.True(t, arr.Toggle())
	require.True(t, arr.Collapsed())

	require.True(t, root.Toggle())
	assert.True(t, root.Collapsed())
	assert.True(t, arr.Collapsed(), "collapsing the parent leaves the child alone")

	require.True(t, root.Toggle())
	assert.False(t, root.Collapsed())
	assert.True(t, arr.Collapsed(), "re-expanding the parent keeps the child collapsed")
}

func TestToggle_ChildDoesNotAffectAncestors(t *testing.T) {
	root := mustRender(t, nested)
	deep := root.Children[1].Children[0] // meta.page

	deep.Toggle()

	assert.True(t, deep.Collapsed())
	assert.False(t, root.Collapsed())
	assert.False(t, root.Children[1].Collapsed())
}

func TestWalk_PreOrderWithDepth(t *testing.T) {
	root := mustRender(t, `{"a": [1, 2], "b": 3}`)

	var texts []string
	var depths []int
	Walk(root, func(n *Node, depth int) bool {
		texts = append(texts, n.Key+n.Text)
		depths = append(depths, depth)
		return true
	})

	assert.Equal(t, []string{"", `"a"`, "1", "2", `"b"3`}, texts)
	assert.Equal(t, []int{0, 1, 2, 2, 1}, depths)
}

func TestWalk_SkipChildren(t *testing.T) {
	root := mustRender(t, `{"a": [1, 2], "b": 3}`)

	visited := 0
	Walk(root, func(n *Node, _ int) bool {
		visited++
		return n.Kind != root.Children[0].Kind
	})
	assert.Equal(t, 3, visited, "root, the skipped array, and b")
}

func TestCount(t *testing.T) {
	root := mustRender(t, nested)
	root.Children[1].Toggle()

	stats := Count(root)
	assert.Equal(t, 14, stats.Nodes)
	assert.Equal(t, 7, stats.Collapsible)
	assert.Equal(t, 1, stats.Collapsed)
	assert.Equal(t, 4, stats.MaxDepth)
}
