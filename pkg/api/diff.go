package api

type (
	// DiffOp classifies one structural difference
	DiffOp string

	// DiffEntry is one structural difference between two JSON-like trees,
	// addressed by a slash-delimited path with `[i]` suffixes for array
	// indices. Old and New carry the values as-is; absent sides are null.
	DiffEntry struct {
		Old  any    `json:"old"`
		New  any    `json:"new"`
		Op   DiffOp `json:"op"`
		Path string `json:"path"`
	}
)

const (
	DiffAdd    DiffOp = "add"
	DiffRemove DiffOp = "remove"
	DiffChange DiffOp = "change"
)
