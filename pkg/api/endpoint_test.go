package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

func TestParseMethod(t *testing.T) {
	m, ok := api.ParseMethod("get")
	assert.True(t, ok)
	assert.Equal(t, api.MethodGet, m)

	m, ok = api.ParseMethod(" DELETE ")
	assert.True(t, ok)
	assert.Equal(t, api.MethodDelete, m)

	_, ok = api.ParseMethod("parameters")
	assert.False(t, ok)

	_, ok = api.ParseMethod("")
	assert.False(t, ok)
}

func TestEndpointRecordKey(t *testing.T) {
	rec := api.EndpointRecord{Path: "/pets", Method: api.MethodPost}
	assert.Equal(t, api.EndpointKey{
		Path:   "/pets",
		Method: api.MethodPost,
	}, rec.Key())
}
