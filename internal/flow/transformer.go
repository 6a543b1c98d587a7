package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

const (
	defaultTrigger  = "user_signup"
	defaultTemplate = "welcome"
	emailActionType = "send_email"
)

// ErrInvalidIntent is returned when an intent cannot produce a flow
var ErrInvalidIntent = errors.New("invalid intent")

// BuildFlow assembles a flow document from an extracted intent. The
// first action drives the flow; its fields are renamed through the rules
// and rendered as `{{ user.<field> }}` template parameters. Missing
// trigger or template names fall back to the signup/welcome defaults.
func BuildFlow(
	intent api.Intent, rules map[string]string,
) (api.FlowDocument, error) {
	if len(intent.Actions) == 0 {
		return api.FlowDocument{}, fmt.Errorf(
			"%w: must contain at least one action", ErrInvalidIntent,
		)
	}
	first := intent.Actions[0]
	if first.Fields == nil {
		return api.FlowDocument{}, fmt.Errorf(
			"%w: first action must carry fields", ErrInvalidIntent,
		)
	}

	trigger := intent.Trigger
	if trigger == "" {
		trigger = defaultTrigger
	}
	template := first.Template
	if template == "" {
		template = defaultTemplate
	}

	mapped := MapFields(first.Fields, rules)
	params := make(map[string]string, len(mapped))
	for key, val := range mapped {
		field := strings.ReplaceAll(val, "user.", "")
		params[key] = "{{ user." + field + " }}"
	}

	return api.FlowDocument{
		Flow: api.Flow{
			Trigger: api.FlowTrigger{Event: trigger},
			Actions: []api.FlowAction{{
				ActionType: emailActionType,
				TemplateID: template,
				Params:     params,
			}},
		},
	}, nil
}
