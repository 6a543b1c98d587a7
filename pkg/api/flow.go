package api

type (
	// Intent is the structured automation request returned by the
	// intent-extraction service
	Intent struct {
		Trigger string         `json:"trigger"`
		Actions []IntentAction `json:"actions"`
	}

	// IntentAction is one action within an extracted intent
	IntentAction struct {
		Type     string            `json:"type"`
		Template string            `json:"template"`
		Fields   map[string]string `json:"fields"`
	}

	// FlowDocument is the flow JSON produced from an intent
	FlowDocument struct {
		Flow Flow `json:"flow"`
	}

	// Flow pairs a trigger with the actions it fires
	Flow struct {
		Trigger FlowTrigger  `json:"trigger"`
		Actions []FlowAction `json:"actions"`
	}

	// FlowTrigger names the event that starts a flow
	FlowTrigger struct {
		Event string `json:"event"`
	}

	// FlowAction is one templated action in a flow, with params rendered
	// as `{{ user.<field> }}` placeholders
	FlowAction struct {
		ActionType string            `json:"action_type"`
		TemplateID string            `json:"template_id"`
		Params     map[string]string `json:"params"`
	}
)
