package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

func TestTimestampRoundTrip(t *testing.T) {
	assert.Equal(t, "1700000000", api.FormatTimestamp(1700000000))
	assert.Equal(t, int64(1700000000), api.ParseTimestamp("1700000000"))
	assert.Equal(t, int64(0), api.ParseTimestamp("yesterday"))
	assert.Equal(t, int64(0), api.ParseTimestamp(""))
}

func TestNewMetadata(t *testing.T) {
	meta := api.NewMetadata("bearer_token", "http://example.com/spec.json",
		1700000000)
	assert.Equal(t, "bearer_token", meta.AuthType)
	assert.Equal(t, "http://example.com/spec.json", meta.SourceURL)
	assert.Equal(t, "2023-11-14T22:13:20Z", meta.VersionTS)
}

func TestStoredItemKey(t *testing.T) {
	item := api.StoredItem{Endpoint: "/pets", Method: api.MethodGet}
	assert.Equal(t, api.EndpointKey{
		Path:   "/pets",
		Method: api.MethodGet,
	}, item.Key())
}
