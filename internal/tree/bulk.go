package tree

// CollapseAll collapses every collapsible node under root, root included,
// whatever state each node was in. Leaves and empty containers are skipped.
func CollapseAll(root *Node) int {
	return setAll(root, true)
}

// ExpandAll expands every collapsible node under root, root included.
func ExpandAll(root *Node) int {
	return setAll(root, false)
}

// setAll returns how many nodes changed state.
func setAll(root *Node, collapsed bool) int {
	changed := 0
	Walk(root, func(n *Node, _ int) bool {
		if n.SetCollapsed(collapsed) {
			changed++
		}
		return true
	})
	return changed
}

// Walk visits root and all of its descendants in pre-order, regardless of
// collapse state. fn receives each node and its depth below root; returning
// false skips that node's children.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	if root == nil {
		return
	}

	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			continue
		}
		// Push in reverse so children are visited in order.
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}

// Stats summarizes a rendered tree.
type Stats struct {
	Nodes       int
	Collapsible int
	Collapsed   int
	MaxDepth    int
}

// Count walks the tree under root and tallies its nodes.
func Count(root *Node) Stats {
	var s Stats
	Walk(root, func(n *Node, depth int) bool {
		s.Nodes++
		if n.Collapsible() {
			s.Collapsible++
		}
		if n.Collapsed() {
			s.Collapsed++
		}
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		return true
	})
	return s
}
