package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

type (
	// NodeKind discriminates the variants of a SchemaNode
	NodeKind string

	// SchemaNode is the canonical structural representation of a JSON-like
	// type. Exactly one of Fields, Elem, Type, or Raw is meaningful,
	// selected by Kind. References are resolved before a node is built;
	// nodes that cannot be resolved degrade to the "unknown" scalar.
	SchemaNode struct {
		Fields map[string]*SchemaNode
		Elem   *SchemaNode
		Raw    any
		Type   string
		Kind   NodeKind
	}
)

const (
	KindObject NodeKind = "object"
	KindArray  NodeKind = "array"
	KindScalar NodeKind = "scalar"
	KindRaw    NodeKind = "raw"

	// UnknownType is the scalar type used when a schema cannot be
	// determined (unresolved reference, cyclic reference, opaque HTML)
	UnknownType = "unknown"

	// NoneType is the scalar type used when no schema applies at all
	// (e.g. a request with no body)
	NoneType = "none"
)

var ErrUnknownNodeKind = errors.New("unknown schema node kind")

// Object builds an object node from a field-name to node mapping
func Object(fields map[string]*SchemaNode) *SchemaNode {
	return &SchemaNode{Kind: KindObject, Fields: fields}
}

// Array builds an array node wrapping a single element type
func Array(elem *SchemaNode) *SchemaNode {
	return &SchemaNode{Kind: KindArray, Elem: elem}
}

// Scalar builds a leaf node carrying a bare type name
func Scalar(typeName string) *SchemaNode {
	return &SchemaNode{Kind: KindScalar, Type: typeName}
}

// RawNode wraps a JSON value that could not be flattened; it marshals
// unchanged
func RawNode(v any) *SchemaNode {
	return &SchemaNode{Kind: KindRaw, Raw: v}
}

// Unknown is the degraded node used for unresolvable schemas
func Unknown() *SchemaNode {
	return Scalar(UnknownType)
}

// TypeOnly builds the `{"type": <name>}` marker object used for absent or
// heuristic schemas (e.g. {"type": "none"} when no request body exists)
func TypeOnly(name string) *SchemaNode {
	return Object(map[string]*SchemaNode{"type": Scalar(name)})
}

// TypeName returns the scalar value of the node's "type" field when the
// node is a type-marker object, or the node's own type when scalar
func (n *SchemaNode) TypeName() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case KindScalar:
		return n.Type, true
	case KindObject:
		if t, ok := n.Fields["type"]; ok && t.Kind == KindScalar {
			return t.Type, true
		}
	}
	return "", false
}

// Value converts the node into the generic JSON tree consumed by the diff
// engine: objects become string-keyed maps, arrays become single-element
// slices, scalars become type-name strings
func (n *SchemaNode) Value() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindObject:
		m := make(map[string]any, len(n.Fields))
		for name, field := range n.Fields {
			m[name] = field.Value()
		}
		return m
	case KindArray:
		return []any{n.Elem.Value()}
	case KindScalar:
		return n.Type
	case KindRaw:
		return n.Raw
	}
	return nil
}

// Equal reports deep structural equality of two nodes
func (n *SchemaNode) Equal(other *SchemaNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	a, err := json.Marshal(n)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

// MarshalJSON emits the canonical flattened form
func (n *SchemaNode) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindObject:
		return json.Marshal(n.Fields)
	case KindArray:
		return json.Marshal([]*SchemaNode{n.Elem})
	case KindScalar:
		return json.Marshal(n.Type)
	case KindRaw:
		return json.Marshal(n.Raw)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNodeKind, n.Kind)
}

// UnmarshalJSON reverses the canonical form: strings become scalars,
// one-element arrays become array nodes, objects become object nodes, and
// everything else round-trips as a raw node
func (n *SchemaNode) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = *fromValue(v)
	return nil
}

func fromValue(v any) *SchemaNode {
	switch t := v.(type) {
	case string:
		return Scalar(t)
	case map[string]any:
		fields := make(map[string]*SchemaNode, len(t))
		for name, val := range t {
			fields[name] = fromValue(val)
		}
		return Object(fields)
	case []any:
		if len(t) == 1 {
			return Array(fromValue(t[0]))
		}
		return RawNode(v)
	default:
		return RawNode(v)
	}
}
