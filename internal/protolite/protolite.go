// Package protolite decodes a restricted protobuf wire format into a generic
// tree, driven by a hand-written schema instead of generated code. It exists
// to read one mostly-static config blob; it is deliberately not a general
// protobuf implementation.
package protolite

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"
)

// Node describes how to interpret one field. A Node with non-nil Fields marks
// a nested message whose length-delimited payload is decoded recursively;
// Name, when set, replaces the field number as the key in the decoded tree.
type Node struct {
	Name   string
	Fields map[int32]Node
}

// Named is shorthand for a leaf Node that only renames its field.
func Named(name string) Node {
	return Node{Name: name}
}

// Value is one decoded field value: uint64 for varints, []byte for fixed32,
// fixed64 and opaque length-delimited payloads, or Tree for payloads the
// schema declares as nested messages.
type Value = any

// Tree maps field keys (schema names, or decimal field numbers when the
// schema is silent) to their decoded values. Every field is a slice even when
// it occurred once, because the wire format allows repetition.
type Tree map[string][]Value

// DecodeError is a fatal wire-format violation at a byte offset.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("protolite: %s at offset %d", e.Reason, e.Offset)
}

// Decode reads (tag, value) pairs until data is exhausted. Wire types 0, 1, 2
// and 5 are supported; any other tag type is a fatal error. Schema mismatches
// fail soft: an unnamed field keys by number, and a length-delimited payload
// is kept opaque unless the schema declares a nested message for it.
func Decode(data []byte, schema *Node) (Tree, error) {
	tree := make(Tree)
	off := 0
	for off < len(data) {
		num, typ, n := protowire.ConsumeTag(data[off:])
		if n < 0 {
			return nil, &DecodeError{Offset: off, Reason: "malformed tag"}
		}
		tagOff := off
		off += n

		key := strconv.FormatInt(int64(num), 10)
		var nested *Node
		if schema != nil {
			if node, ok := schema.Fields[int32(num)]; ok {
				if node.Name != "" {
					key = node.Name
				}
				if node.Fields != nil {
					nested = &node
				}
			}
		}

		var val Value
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data[off:])
			if n < 0 {
				return nil, &DecodeError{Offset: off, Reason: "malformed varint"}
			}
			off += n
			val = v
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(data[off:])
			if n < 0 {
				return nil, &DecodeError{Offset: off, Reason: "short fixed64"}
			}
			val = append([]byte(nil), data[off:off+n]...)
			off += n
		case protowire.BytesType:
			b, n := protowire.ConsumeBytes(data[off:])
			if n < 0 {
				return nil, &DecodeError{Offset: off, Reason: "malformed length-delimited field"}
			}
			off += n
			if nested != nil {
				sub, err := Decode(b, nested)
				if err != nil {
					return nil, err
				}
				val = sub
			} else {
				val = append([]byte(nil), b...)
			}
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(data[off:])
			if n < 0 {
				return nil, &DecodeError{Offset: off, Reason: "short fixed32"}
			}
			val = append([]byte(nil), data[off:off+n]...)
			off += n
		default:
			return nil, &DecodeError{
				Offset: tagOff,
				Reason: fmt.Sprintf("unsupported wire type %d for field %d", typ, num),
			}
		}
		tree[key] = append(tree[key], val)
	}
	return tree, nil
}

// FirstString returns the field's first value as a string, or "" when the
// field is absent or not a byte payload. Convenience for the common
// string-field case.
func (t Tree) FirstString(key string) string {
	vs := t[key]
	if len(vs) == 0 {
		return ""
	}
	b, ok := vs[0].([]byte)
	if !ok {
		return ""
	}
	return string(b)
}

// Trees returns the field's values that decoded as nested trees.
func (t Tree) Trees(key string) []Tree {
	var out []Tree
	for _, v := range t[key] {
		if sub, ok := v.(Tree); ok {
			out = append(out, sub)
		}
	}
	return out
}
