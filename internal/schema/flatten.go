package schema

import (
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

// flattener tracks references currently open on the recursion stack so
// that cyclic schemas terminate instead of recursing forever
type flattener struct {
	doc  map[string]any
	open map[string]bool
}

// Flatten converts an OpenAPI-style schema object into the canonical type
// tree: `type: object` with properties becomes a field mapping, `type:
// array` with items becomes a single-element wrapper, a bare scalar `type`
// collapses to its type string, and anything else passes through
// unchanged. References are resolved against doc as they are encountered;
// re-visiting a reference that is still open yields the unknown scalar.
func Flatten(doc, node map[string]any) *api.SchemaNode {
	f := &flattener{doc: doc, open: map[string]bool{}}
	return f.flatten(node)
}

func (f *flattener) flatten(node map[string]any) *api.SchemaNode {
	if len(node) == 0 {
		return api.RawNode(map[string]any{})
	}

	if ref, ok := node["$ref"].(string); ok {
		if f.open[ref] {
			return api.Unknown()
		}
		f.open[ref] = true
		defer delete(f.open, ref)
		return f.flatten(Resolve(f.doc, ref))
	}

	typ, _ := node["type"].(string)

	if typ == "object" {
		if props, ok := node["properties"].(map[string]any); ok {
			fields := make(map[string]*api.SchemaNode, len(props))
			for name, prop := range props {
				fields[name] = f.flattenValue(prop)
			}
			return api.Object(fields)
		}
	}

	if typ == "array" {
		if items, ok := node["items"].(map[string]any); ok {
			return api.Array(f.flatten(items))
		}
	}

	if typ != "" {
		return api.Scalar(typ)
	}

	return api.RawNode(node)
}

func (f *flattener) flattenValue(v any) *api.SchemaNode {
	if obj, ok := v.(map[string]any); ok {
		return f.flatten(obj)
	}
	return api.RawNode(v)
}
