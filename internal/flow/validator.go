package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

// ErrFlowInvalid is returned when a built flow violates the flow schema
var ErrFlowInvalid = errors.New("flow validation failed")

const flowSchema = `{
	"type": "object",
	"required": ["flow"],
	"properties": {
		"flow": {
			"type": "object",
			"required": ["trigger", "actions"],
			"properties": {
				"trigger": {
					"type": "object",
					"required": ["event"],
					"properties": {
						"event": {"type": "string", "minLength": 1}
					}
				},
				"actions": {
					"type": "array",
					"minItems": 1,
					"items": {
						"type": "object",
						"required": ["action_type", "template_id", "params"],
						"properties": {
							"action_type": {
								"type": "string", "minLength": 1
							},
							"template_id": {
								"type": "string", "minLength": 1
							},
							"params": {
								"type": "object",
								"additionalProperties": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(flowSchema)

// Validate checks a flow document against the email-flow schema
func Validate(doc api.FlowDocument) error {
	data, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFlowInvalid, err)
	}

	result, err := gojsonschema.Validate(
		schemaLoader, gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFlowInvalid, err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf(
		"%w: %s", ErrFlowInvalid, strings.Join(details, "; "),
	)
}
