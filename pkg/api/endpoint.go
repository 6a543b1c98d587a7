package api

import "strings"

type (
	// Method is an HTTP verb recognized by the extractors
	Method string

	// EndpointRecord is the canonical description of one API operation.
	// Records are immutable once created; a new scrape produces a new set.
	// Uniquely identified by (path, method) within one API version.
	EndpointRecord struct {
		InputSchema  *SchemaNode `json:"input_schema"`
		OutputSchema *SchemaNode `json:"output_schema"`
		Method       Method      `json:"method"`
		Path         string      `json:"path"`
		AuthType     string      `json:"auth_type"`
	}

	// EndpointKey identifies an endpoint within a snapshot
	EndpointKey struct {
		Path   string `json:"path"`
		Method Method `json:"method"`
	}
)

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
	MethodPatch  Method = "PATCH"
)

// Methods lists the verbs extracted from documentation sources
var Methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
}

// ParseMethod normalizes a verb string, reporting whether it is one of the
// recognized methods
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Key returns the record's identity within its snapshot
func (e *EndpointRecord) Key() EndpointKey {
	return EndpointKey{Path: e.Path, Method: e.Method}
}
