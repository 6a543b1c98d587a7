package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/flow"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

func TestBuildFlow(t *testing.T) {
	intent := api.Intent{
		Trigger: "order_placed",
		Actions: []api.IntentAction{{
			Type:     "send_email",
			Template: "receipt",
			Fields: map[string]string{
				"name":  "user.name",
				"total": "user.order_total",
			},
		}},
	}

	doc, err := flow.BuildFlow(intent, nil)
	assert.NoError(t, err)
	assert.Equal(t, "order_placed", doc.Flow.Trigger.Event)
	assert.Len(t, doc.Flow.Actions, 1)

	action := doc.Flow.Actions[0]
	assert.Equal(t, "send_email", action.ActionType)
	assert.Equal(t, "receipt", action.TemplateID)
	assert.Equal(t, map[string]string{
		"name":  "{{ user.name }}",
		"total": "{{ user.order_total }}",
	}, action.Params)
}

func TestBuildFlowAppliesFieldRules(t *testing.T) {
	intent := api.Intent{
		Actions: []api.IntentAction{{
			Fields: map[string]string{
				"name":  "user.name",
				"email": "user.email",
			},
		}},
	}
	rules := map[string]string{"name": "full_name"}

	doc, err := flow.BuildFlow(intent, rules)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":  "{{ user.full_name }}",
		"email": "{{ user.email }}",
	}, doc.Flow.Actions[0].Params)
}

func TestBuildFlowDefaults(t *testing.T) {
	intent := api.Intent{
		Actions: []api.IntentAction{{
			Fields: map[string]string{},
		}},
	}

	doc, err := flow.BuildFlow(intent, nil)
	assert.NoError(t, err)
	assert.Equal(t, "user_signup", doc.Flow.Trigger.Event)
	assert.Equal(t, "welcome", doc.Flow.Actions[0].TemplateID)
	assert.Empty(t, doc.Flow.Actions[0].Params)
}

func TestBuildFlowRejectsEmptyIntent(t *testing.T) {
	_, err := flow.BuildFlow(api.Intent{}, nil)
	assert.ErrorIs(t, err, flow.ErrInvalidIntent)

	_, err = flow.BuildFlow(api.Intent{
		Actions: []api.IntentAction{{Type: "send_email"}},
	}, nil)
	assert.ErrorIs(t, err, flow.ErrInvalidIntent)
}

func TestMapFields(t *testing.T) {
	mapped := flow.MapFields(
		map[string]string{
			"name":  "user.name",
			"phone": "user.phone_number",
		},
		map[string]string{"name": "full_name"},
	)
	assert.Equal(t, map[string]string{
		"name":  "full_name",
		"phone": "user.phone_number",
	}, mapped)
}
