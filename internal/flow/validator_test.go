package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/flow"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

func TestValidateBuiltFlow(t *testing.T) {
	doc, err := flow.BuildFlow(flow.FallbackIntent(), nil)
	assert.NoError(t, err)
	assert.NoError(t, flow.Validate(doc))
}

func TestValidateRejectsEmptyDocument(t *testing.T) {
	err := flow.Validate(api.FlowDocument{})
	assert.ErrorIs(t, err, flow.ErrFlowInvalid)
}

func TestValidateRejectsMissingTrigger(t *testing.T) {
	doc := api.FlowDocument{
		Flow: api.Flow{
			Actions: []api.FlowAction{{
				ActionType: "send_email",
				TemplateID: "welcome",
				Params:     map[string]string{},
			}},
		},
	}
	err := flow.Validate(doc)
	assert.ErrorIs(t, err, flow.ErrFlowInvalid)
}
