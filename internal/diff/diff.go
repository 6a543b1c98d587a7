// Package diff computes structural deltas between JSON-like trees and
// between whole endpoint sets.
package diff

import (
	"fmt"
	"sort"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

type valueShape int

const (
	shapeScalar valueShape = iota
	shapeObject
	shapeArray
)

// Trees computes the structural difference between two JSON-like trees
// (maps, slices, scalars as produced by encoding/json). The result is
// empty iff the trees are deeply equal. Object keys are visited in sorted
// order so output is deterministic. Arrays are compared positionally, not
// by content: a reordered list reports as per-index changes, never as a
// move.
func Trees(oldVal, newVal any) []api.DiffEntry {
	return walk(oldVal, newVal, "", nil)
}

func walk(oldVal, newVal any, path string, out []api.DiffEntry) []api.DiffEntry {
	oldShape := shapeOf(oldVal)
	newShape := shapeOf(newVal)

	if oldShape != newShape {
		return append(out, api.DiffEntry{
			Op:   api.DiffChange,
			Path: path,
			Old:  oldVal,
			New:  newVal,
		})
	}

	switch oldShape {
	case shapeObject:
		return walkObjects(
			oldVal.(map[string]any), newVal.(map[string]any), path, out,
		)
	case shapeArray:
		return walkArrays(oldVal.([]any), newVal.([]any), path, out)
	default:
		if oldVal != newVal {
			out = append(out, api.DiffEntry{
				Op:   api.DiffChange,
				Path: path,
				Old:  oldVal,
				New:  newVal,
			})
		}
		return out
	}
}

// walkObjects treats a key mapped to null as present: removing such a key
// still reports a remove with old=null, distinct from a change to null
func walkObjects(
	oldObj, newObj map[string]any, path string, out []api.DiffEntry,
) []api.DiffEntry {
	for _, key := range sortedKeys(oldObj) {
		if _, ok := newObj[key]; !ok {
			out = append(out, api.DiffEntry{
				Op:   api.DiffRemove,
				Path: childPath(path, key),
				Old:  oldObj[key],
			})
		}
	}
	for _, key := range sortedKeys(newObj) {
		if _, ok := oldObj[key]; !ok {
			out = append(out, api.DiffEntry{
				Op:   api.DiffAdd,
				Path: childPath(path, key),
				New:  newObj[key],
			})
		}
	}
	for _, key := range sortedKeys(oldObj) {
		if _, ok := newObj[key]; ok {
			out = walk(oldObj[key], newObj[key], childPath(path, key), out)
		}
	}
	return out
}

func walkArrays(
	oldArr, newArr []any, path string, out []api.DiffEntry,
) []api.DiffEntry {
	shorter := min(len(oldArr), len(newArr))
	for i := range shorter {
		out = walk(oldArr[i], newArr[i], indexPath(path, i), out)
	}
	for i := shorter; i < len(oldArr); i++ {
		out = append(out, api.DiffEntry{
			Op:   api.DiffRemove,
			Path: indexPath(path, i),
			Old:  oldArr[i],
		})
	}
	for i := shorter; i < len(newArr); i++ {
		out = append(out, api.DiffEntry{
			Op:   api.DiffAdd,
			Path: indexPath(path, i),
			New:  newArr[i],
		})
	}
	return out
}

func shapeOf(v any) valueShape {
	switch v.(type) {
	case map[string]any:
		return shapeObject
	case []any:
		return shapeArray
	default:
		return shapeScalar
	}
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "/" + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
