package tree

import (
	"fmt"

	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/parser"
)

// Reconstruct rebuilds the value a node displays by parsing the text of its
// leaves and key labels. It ignores collapse state.
func Reconstruct(n *Node) (models.Value, error) {
	if n == nil {
		return models.Value{}, fmt.Errorf("reconstruct: nil node")
	}

	switch n.Kind {
	case models.Array:
		items := make([]models.Value, 0, len(n.Children))
		for _, child := range n.Children {
			v, err := Reconstruct(child)
			if err != nil {
				return models.Value{}, err
			}
			items = append(items, v)
		}
		return models.ArrayValue(items...), nil

	case models.Object:
		members := make([]models.Member, 0, len(n.Children))
		for _, child := range n.Children {
			if !child.HasKey {
				return models.Value{}, fmt.Errorf("reconstruct: object member without key")
			}
			key, err := parser.ParseString(child.Key)
			if err != nil {
				return models.Value{}, fmt.Errorf("reconstruct key %s: %w", child.Key, err)
			}
			if key.Kind != models.String {
				return models.Value{}, fmt.Errorf("reconstruct: key %s is not a string", child.Key)
			}
			v, err := Reconstruct(child)
			if err != nil {
				return models.Value{}, err
			}
			members = append(members, models.Member{Key: key.Str, Value: v})
		}
		return models.ObjectValue(members...), nil

	default:
		v, err := parser.ParseString(n.Text)
		if err != nil {
			return models.Value{}, fmt.Errorf("reconstruct leaf %s: %w", n.Text, err)
		}
		if v.Kind != n.Kind {
			return models.Value{}, fmt.Errorf("reconstruct: leaf %s parsed as %s, want %s", n.Text, v.Kind, n.Kind)
		}
		return v, nil
	}
}
