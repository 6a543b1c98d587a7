package api

import (
	"strconv"
	"time"
)

type (
	// EndpointSchema is the persisted schema payload of one endpoint
	EndpointSchema struct {
		Input  *SchemaNode `json:"input"`
		Output *SchemaNode `json:"output"`
	}

	// SnapshotMetadata describes how and when a snapshot was captured
	SnapshotMetadata struct {
		AuthType  string `json:"auth_type"`
		SourceURL string `json:"source_url"`
		VersionTS string `json:"version_ts"`
	}

	// StoredItem is one persisted endpoint schema, keyed by the four-part
	// composite (api_name, timestamp, endpoint, method). The timestamp is
	// a string-encoded unix-seconds integer for lexicographic sortability.
	StoredItem struct {
		APIName   string           `json:"api_name"`
		Endpoint  string           `json:"endpoint"`
		Method    Method           `json:"method"`
		Timestamp string           `json:"timestamp"`
		Schema    EndpointSchema   `json:"schema"`
		Metadata  SnapshotMetadata `json:"metadata"`
	}

	// VersionInfo summarizes one stored snapshot version
	VersionInfo struct {
		Timestamp     int64    `json:"timestamp"`
		EndpointCount int      `json:"endpoint_count"`
		Methods       []string `json:"methods"`
		SourceURL     string   `json:"source_url"`
		AuthType      string   `json:"auth_type"`
	}
)

// FormatTimestamp encodes a unix-seconds timestamp in its stored string form
func FormatTimestamp(ts int64) string {
	return strconv.FormatInt(ts, 10)
}

// ParseTimestamp decodes a stored timestamp string; malformed values yield
// zero
func ParseTimestamp(s string) int64 {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}

// NewMetadata builds snapshot metadata with an ISO-8601 UTC version string
// derived from the capture timestamp
func NewMetadata(authType, sourceURL string, ts int64) SnapshotMetadata {
	return SnapshotMetadata{
		AuthType:  authType,
		SourceURL: sourceURL,
		VersionTS: time.Unix(ts, 0).UTC().Format(time.RFC3339),
	}
}

// Key returns the item's endpoint identity
func (i *StoredItem) Key() EndpointKey {
	return EndpointKey{Path: i.Endpoint, Method: i.Method}
}
