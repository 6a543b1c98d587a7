package schema

import (
	"log/slog"
	"strings"
)

// Resolve walks a `#/a/b/c` pointer from the document root. Any missing or
// non-object step degrades to an empty object rather than failing the
// extraction; the gap is logged and the caller proceeds with what it has.
func Resolve(doc map[string]any, ref string) map[string]any {
	trimmed := strings.TrimPrefix(ref, "#/")
	current := any(doc)
	for _, part := range strings.Split(trimmed, "/") {
		obj, ok := current.(map[string]any)
		if !ok {
			slog.Debug("Reference step is not an object",
				slog.String("ref", ref),
				slog.String("part", part))
			return map[string]any{}
		}
		next, ok := obj[part]
		if !ok {
			slog.Debug("Reference target missing",
				slog.String("ref", ref),
				slog.String("part", part))
			return map[string]any{}
		}
		current = next
	}

	if obj, ok := current.(map[string]any); ok {
		return obj
	}
	slog.Debug("Reference target is not an object", slog.String("ref", ref))
	return map[string]any{}
}

// ResolveNode dereferences a schema object if it carries a `$ref`,
// returning the schema unchanged otherwise
func ResolveNode(doc, node map[string]any) map[string]any {
	if node == nil {
		return map[string]any{}
	}
	if ref, ok := node["$ref"].(string); ok {
		return Resolve(doc, ref)
	}
	return node
}
