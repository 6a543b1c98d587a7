package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

func TestChangeSetEmpty(t *testing.T) {
	var changes api.ChangeSet
	assert.True(t, changes.Empty())

	changes.AddedEndpoints = append(changes.AddedEndpoints,
		api.EndpointKey{Path: "/pets", Method: api.MethodGet})
	assert.False(t, changes.Empty())
}

func TestChangeSetSummary(t *testing.T) {
	changes := api.ChangeSet{
		AddedEndpoints: []api.EndpointKey{
			{Path: "/pets", Method: api.MethodGet},
		},
		ModifiedEndpoints: []api.ModifiedEndpoint{
			{Path: "/orders", Method: api.MethodPost},
			{Path: "/orders/{id}", Method: api.MethodPut},
		},
	}
	assert.Equal(t, api.ChangesSummary{
		AddedCount:    1,
		ModifiedCount: 2,
	}, changes.Summary())
}
