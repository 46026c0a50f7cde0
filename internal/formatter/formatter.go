package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/jsonfmt/internal/models"
)

// Mode selects how a document is written out as text.
type Mode string

const (
	ModePretty Mode = "pretty"
	ModeMinify Mode = "minify"
)

// ParseMode converts a user-supplied mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePretty, "":
		return ModePretty, nil
	case ModeMinify:
		return ModeMinify, nil
	default:
		return "", fmt.Errorf("unknown copy format %q (want pretty or minify)", s)
	}
}

// DefaultIndent matches the two-space layout browsers produce for
// JSON.stringify(v, null, 2).
const DefaultIndent = 2

// Formatter serializes JSON values back to text, keeping object key order.
type Formatter struct {
	indent string
}

// NewFormatter creates a Formatter that indents pretty output by the given
// number of spaces. Non-positive widths fall back to DefaultIndent.
func NewFormatter(indent int) *Formatter {
	if indent <= 0 {
		indent = DefaultIndent
	}
	return &Formatter{indent: strings.Repeat(" ", indent)}
}

// Format writes v in the requested mode.
func (f *Formatter) Format(v models.Value, mode Mode) (string, error) {
	switch mode {
	case ModeMinify:
		return f.Minify(v)
	default:
		return f.Pretty(v)
	}
}

// Pretty returns v as indented JSON.
func (f *Formatter) Pretty(v models.Value) (string, error) {
	return f.encode(v, f.indent)
}

// Minify returns v as compact JSON with no insignificant whitespace.
func (f *Formatter) Minify(v models.Value) (string, error) {
	return f.encode(v, "")
}

func (f *Formatter) encode(v models.Value, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Describe returns the badge and detail line a host shows above a rendered
// document: "Array" / "3 items", "Object" / "1 key", or the primitive kind
// name with an empty detail.
func Describe(v models.Value) (badge, detail string) {
	switch v.Kind {
	case models.Array:
		return KindLabel(v.Kind), count(v.Len(), "item", "items")
	case models.Object:
		return KindLabel(v.Kind), count(v.Len(), "key", "keys")
	default:
		return v.Kind.String(), ""
	}
}

// KindLabel is the display name of a kind: "Array", "Boolean", "Null".
func KindLabel(k models.Kind) string {
	return strcase.ToCamel(k.String())
}

func count(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
