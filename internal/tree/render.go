package tree

import (
	"strconv"

	"github.com/mcncl/jsonfmt/internal/models"
)

// Render builds a fresh, fully expanded tree for v. The root is always the
// last sibling of its (absent) parent.
func Render(v models.Value) *Node {
	return renderValue(v, true)
}

func renderValue(v models.Value, isLast bool) *Node {
	switch v.Kind {
	case models.Null:
		return leaf(v.Kind, "null", isLast)
	case models.Bool:
		return leaf(v.Kind, strconv.FormatBool(v.Bool), isLast)
	case models.Number:
		return leaf(v.Kind, v.Number.String(), isLast)
	case models.String:
		return leaf(v.Kind, models.Quote(v.Str), isLast)
	case models.Array:
		return renderArray(v, isLast)
	case models.Object:
		return renderObject(v, isLast)
	default:
		// Unreachable for values produced by the parser or the models
		// constructors.
		return leaf(models.Null, "null", isLast)
	}
}

func leaf(kind models.Kind, text string, isLast bool) *Node {
	return &Node{Kind: kind, Text: text, IsLastSibling: isLast}
}

func renderArray(v models.Value, isLast bool) *Node {
	n := &Node{
		Kind:          models.Array,
		Summary:       summary(len(v.Items), "item", "items"),
		IsLastSibling: isLast,
		Children:      make([]*Node, 0, len(v.Items)),
	}
	for i, item := range v.Items {
		n.Children = append(n.Children, renderValue(item, i == len(v.Items)-1))
	}
	return n
}

func renderObject(v models.Value, isLast bool) *Node {
	n := &Node{
		Kind:          models.Object,
		Summary:       summary(len(v.Members), "key", "keys"),
		IsLastSibling: isLast,
		Children:      make([]*Node, 0, len(v.Members)),
	}
	for i, m := range v.Members {
		child := renderValue(m.Value, i == len(v.Members)-1)
		child.HasKey = true
		child.Key = models.Quote(m.Key)
		n.Children = append(n.Children, child)
	}
	return n
}

// summary formats a child count; an empty container has no summary.
func summary(count int, singular, plural string) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "1 " + singular
	default:
		return strconv.Itoa(count) + " " + plural
	}
}
