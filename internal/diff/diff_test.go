package diff_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/diff"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

func tree(t *testing.T, src string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("bad test tree %q: %v", src, err)
	}
	return v
}

func TestIdenticalTreesYieldEmptyDiff(t *testing.T) {
	trees := []string{
		`"scalar"`,
		`{"a":1,"b":{"c":[1,2,3]}}`,
		`[{"x":null},{"y":false}]`,
		`null`,
	}
	for _, src := range trees {
		entries := diff.Trees(tree(t, src), tree(t, src))
		assert.Empty(t, entries, src)
	}
}

func TestKeyOrderDoesNotMatter(t *testing.T) {
	old := tree(t, `{"a":"string","b":{"c":"integer","d":"boolean"}}`)
	updated := tree(t, `{"b":{"d":"boolean","c":"integer"},"a":"string"}`)

	assert.Empty(t, diff.Trees(old, updated))
}

func TestNullVersusMissing(t *testing.T) {
	entries := diff.Trees(tree(t, `{"a":null}`), tree(t, `{}`))
	assert.Equal(t, []api.DiffEntry{
		{Op: api.DiffRemove, Path: "a", Old: nil, New: nil},
	}, entries)

	entries = diff.Trees(tree(t, `{}`), tree(t, `{"a":null}`))
	assert.Equal(t, []api.DiffEntry{
		{Op: api.DiffAdd, Path: "a", Old: nil, New: nil},
	}, entries)
}

func TestNestedAddAndChange(t *testing.T) {
	entries := diff.Trees(
		tree(t, `{"a":{"b":{"c":1}}}`),
		tree(t, `{"a":{"b":{"c":2,"d":3}}}`),
	)

	assert.Contains(t, entries, api.DiffEntry{
		Op: api.DiffChange, Path: "a/b/c", Old: float64(1), New: float64(2),
	})
	assert.Contains(t, entries, api.DiffEntry{
		Op: api.DiffAdd, Path: "a/b/d", New: float64(3),
	})
	assert.Len(t, entries, 2)
}

func TestListTruncation(t *testing.T) {
	entries := diff.Trees(
		tree(t, `{"arr":[1,2,3]}`),
		tree(t, `{"arr":[1,4]}`),
	)

	assert.Contains(t, entries, api.DiffEntry{
		Op: api.DiffChange, Path: "arr[1]", Old: float64(2), New: float64(4),
	})
	assert.Contains(t, entries, api.DiffEntry{
		Op: api.DiffRemove, Path: "arr[2]", Old: float64(3),
	})
	assert.Len(t, entries, 2)
}

func TestListExtension(t *testing.T) {
	entries := diff.Trees(
		tree(t, `[1]`),
		tree(t, `[1,2]`),
	)

	assert.Equal(t, []api.DiffEntry{
		{Op: api.DiffAdd, Path: "[1]", New: float64(2)},
	}, entries)
}

func TestShapeConflictStopsRecursion(t *testing.T) {
	entries := diff.Trees(
		tree(t, `{"a":{"b":1}}`),
		tree(t, `{"a":[1,2,3]}`),
	)

	assert.Len(t, entries, 1)
	assert.Equal(t, api.DiffChange, entries[0].Op)
	assert.Equal(t, "a", entries[0].Path)
}

func TestScalarTypeConflict(t *testing.T) {
	entries := diff.Trees(tree(t, `{"a":"1"}`), tree(t, `{"a":1}`))
	assert.Equal(t, []api.DiffEntry{
		{Op: api.DiffChange, Path: "a", Old: "1", New: float64(1)},
	}, entries)
}

func TestAntisymmetry(t *testing.T) {
	old := tree(t, `{"a":{"b":1,"gone":true},"arr":[1,2,3]}`)
	updated := tree(t, `{"a":{"b":2,"new":"x"},"arr":[1,9]}`)

	forward := diff.Trees(old, updated)
	backward := diff.Trees(updated, old)
	assert.Len(t, backward, len(forward))

	mirrored := map[string]api.DiffEntry{}
	for _, e := range backward {
		mirrored[string(e.Op)+"|"+e.Path] = e
	}
	for _, e := range forward {
		var want api.DiffEntry
		switch e.Op {
		case api.DiffAdd:
			want = api.DiffEntry{
				Op: api.DiffRemove, Path: e.Path, Old: e.New, New: e.Old,
			}
		case api.DiffRemove:
			want = api.DiffEntry{
				Op: api.DiffAdd, Path: e.Path, Old: e.New, New: e.Old,
			}
		case api.DiffChange:
			want = api.DiffEntry{
				Op: api.DiffChange, Path: e.Path, Old: e.New, New: e.Old,
			}
		}
		got, ok := mirrored[string(want.Op)+"|"+want.Path]
		assert.True(t, ok, "no mirror for %s %s", e.Op, e.Path)
		assert.Equal(t, want, got)
	}
}

func TestDiffEntryWireFormat(t *testing.T) {
	entries := diff.Trees(tree(t, `{"a":1}`), tree(t, `{}`))
	data, err := json.Marshal(entries)
	assert.NoError(t, err)
	assert.JSONEq(t,
		`[{"op":"remove","path":"a","old":1,"new":null}]`, string(data))
}
