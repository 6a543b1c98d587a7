package diff

import (
	"encoding/json"
	"sort"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

// Endpoints compares two snapshots one level above the tree diff: records
// are bucketed by (path, method), endpoints present only in the new set
// report as added, only in the old set as removed, and shared keys are
// judged modified by running Trees over their schema payloads.
func Endpoints(oldItems, newItems []api.StoredItem) api.ChangeSet {
	oldByKey := bucket(oldItems)
	newByKey := bucket(newItems)

	changes := api.ChangeSet{
		AddedEndpoints:    []api.EndpointKey{},
		RemovedEndpoints:  []api.EndpointKey{},
		ModifiedEndpoints: []api.ModifiedEndpoint{},
	}

	for key := range newByKey {
		if _, ok := oldByKey[key]; !ok {
			changes.AddedEndpoints = append(changes.AddedEndpoints, key)
		}
	}
	for key := range oldByKey {
		if _, ok := newByKey[key]; !ok {
			changes.RemovedEndpoints = append(changes.RemovedEndpoints, key)
		}
	}

	for key, oldItem := range oldByKey {
		newItem, ok := newByKey[key]
		if !ok {
			continue
		}
		entries := Trees(
			schemaValue(oldItem.Schema), schemaValue(newItem.Schema),
		)
		if len(entries) == 0 {
			continue
		}
		changes.ModifiedEndpoints = append(changes.ModifiedEndpoints,
			api.ModifiedEndpoint{
				Path:       key.Path,
				Method:     key.Method,
				OldSchema:  oldItem.Schema,
				NewSchema:  newItem.Schema,
				SchemaDiff: entries,
			})
	}

	sortKeys(changes.AddedEndpoints)
	sortKeys(changes.RemovedEndpoints)
	sort.Slice(changes.ModifiedEndpoints, func(i, j int) bool {
		a, b := changes.ModifiedEndpoints[i], changes.ModifiedEndpoints[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})

	return changes
}

func bucket(items []api.StoredItem) map[api.EndpointKey]api.StoredItem {
	res := make(map[api.EndpointKey]api.StoredItem, len(items))
	for _, item := range items {
		res[item.Key()] = item
	}
	return res
}

// schemaValue reduces a schema payload to the generic JSON tree the tree
// differ understands
func schemaValue(s api.EndpointSchema) any {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}

func sortKeys(keys []api.EndpointKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Method < keys[j].Method
	})
}
