package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which JSON variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the lower-case JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsContainer reports whether values of this kind hold child values.
func (k Kind) IsContainer() bool {
	return k == Array || k == Object
}

// Value is a parsed JSON value. Exactly one payload field is meaningful,
// selected by Kind. Object members keep the order the parser produced.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  json.Number
	Str     string
	Items   []Value
	Members []Member
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

func NullValue() Value { return Value{Kind: Null} }

func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

func NumberValue(n json.Number) Value { return Value{Kind: Number, Number: n} }

func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// ArrayValue builds an array. A nil item list is normalised to an empty one
// so that empty arrays compare equal regardless of how they were built.
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: Array, Items: items}
}

// ObjectValue builds an object from members in the given order.
func ObjectValue(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{Kind: Object, Members: members}
}

// Len returns the number of direct children of a container, and 0 otherwise.
func (v Value) Len() int {
	switch v.Kind {
	case Array:
		return len(v.Items)
	case Object:
		return len(v.Members)
	default:
		return 0
	}
}

// MarshalJSON writes the value with object members in their stored order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if v.Number == "" {
			return fmt.Errorf("number value has no literal")
		}
		buf.WriteString(v.Number.String())
	case String:
		if err := writeQuoted(buf, v.Str); err != nil {
			return err
		}
	case Array:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeQuoted(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", int(v.Kind))
	}
	return nil
}

// Quote returns s as a JSON string literal. HTML characters are left as is.
func Quote(s string) string {
	var buf bytes.Buffer
	_ = writeQuoted(&buf, s)
	return buf.String()
}

func writeQuoted(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Document is a parsed JSON document together with the title the host
// shows for it.
type Document struct {
	Title string
	Root  Value
}
