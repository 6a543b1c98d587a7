package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/schema"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

func specDoc() map[string]any {
	return map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	doc := specDoc()

	target := schema.Resolve(doc, "#/components/schemas/Pet")
	assert.Equal(t, "object", target["type"])
}

func TestResolveMissingKeyDegrades(t *testing.T) {
	doc := specDoc()

	target := schema.Resolve(doc, "#/components/schemas/Missing")
	assert.Empty(t, target)

	target = schema.Resolve(doc, "#/nowhere/at/all")
	assert.Empty(t, target)
}

func TestResolveNonObjectTargetDegrades(t *testing.T) {
	doc := map[string]any{"a": map[string]any{"b": "scalar"}}

	assert.Empty(t, schema.Resolve(doc, "#/a/b"))
	assert.Empty(t, schema.Resolve(doc, "#/a/b/c"))
}

func TestResolveNode(t *testing.T) {
	doc := specDoc()

	resolved := schema.ResolveNode(doc, map[string]any{
		"$ref": "#/components/schemas/Pet",
	})
	assert.Equal(t, "object", resolved["type"])

	plain := map[string]any{"type": "string"}
	assert.Equal(t, plain, schema.ResolveNode(doc, plain))

	assert.Empty(t, schema.ResolveNode(doc, nil))
}

func TestFlattenObject(t *testing.T) {
	doc := specDoc()

	node := schema.Flatten(doc, map[string]any{
		"$ref": "#/components/schemas/Pet",
	})

	data, err := json.Marshal(node)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name":"string","tags":["string"]}`, string(data))
}

func TestFlattenScalar(t *testing.T) {
	node := schema.Flatten(nil, map[string]any{"type": "integer"})
	assert.Equal(t, api.KindScalar, node.Kind)
	assert.Equal(t, "integer", node.Type)
}

func TestFlattenPassThrough(t *testing.T) {
	raw := map[string]any{"oneOf": []any{map[string]any{"type": "string"}}}
	node := schema.Flatten(nil, raw)
	assert.Equal(t, api.KindRaw, node.Kind)
	assert.Equal(t, raw, node.Raw)
}

func TestFlattenUnresolvableRef(t *testing.T) {
	node := schema.Flatten(specDoc(), map[string]any{
		"$ref": "#/components/schemas/Nope",
	})

	data, err := json.Marshal(node)
	assert.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestFlattenCyclicRef(t *testing.T) {
	doc := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Node": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"value": map[string]any{"type": "string"},
						"next": map[string]any{
							"$ref": "#/components/schemas/Node",
						},
					},
				},
			},
		},
	}

	node := schema.Flatten(doc, map[string]any{
		"$ref": "#/components/schemas/Node",
	})

	data, err := json.Marshal(node)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"value":"string","next":"unknown"}`, string(data))
}

func TestFlattenPropertyOrderIrrelevant(t *testing.T) {
	a := schema.Flatten(nil, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "integer"},
		},
	})
	b := schema.Flatten(nil, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"b": map[string]any{"type": "integer"},
			"a": map[string]any{"type": "string"},
		},
	})

	assert.True(t, a.Equal(b))
}
