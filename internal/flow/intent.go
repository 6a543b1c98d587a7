// Package flow turns natural-language automation requests into validated
// flow documents: intent extraction, field mapping, and flow assembly.
package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/log"
)

// IntentClient extracts structured intents from natural language through
// a chat-completions endpoint. Extraction is best-effort: any failure
// falls back to the canned signup intent so flow generation always has
// something to work with.
type IntentClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
}

const systemPrompt = `You are an AI that extracts structured automation flows from user requests.
Return a JSON object with this structure:
{
  "trigger": "user_signup",
  "actions": [
    {
      "type": "send_email",
      "template": "welcome",
      "fields": {
        "name": "user.name",
        "email": "user.email",
        "signup_date": "user.signup_date"
      }
    }
  ]
}`

const intentTemperature = 0.2

var errEmptyCompletion = errors.New("completion contains no content")

// NewIntentClient creates a client for the given chat-completions
// endpoint
func NewIntentClient(
	endpoint, apiKey, model string, timeout time.Duration,
) *IntentClient {
	return &IntentClient{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
	}
}

// ExtractIntent asks the completion service to structure the user's
// request. Never fails: extraction errors degrade to FallbackIntent.
func (c *IntentClient) ExtractIntent(
	ctx context.Context, userInput string,
) api.Intent {
	intent, err := c.requestIntent(ctx, userInput)
	if err != nil {
		slog.Warn("Intent extraction failed, using fallback",
			log.Error(err))
		return FallbackIntent()
	}
	return intent
}

func (c *IntentClient) requestIntent(
	ctx context.Context, userInput string,
) (api.Intent, error) {
	payload, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userInput},
		},
		"temperature": intentTemperature,
	})
	if err != nil {
		return api.Intent{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload),
	)
	if err != nil {
		return api.Intent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return api.Intent{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return api.Intent{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return api.Intent{}, fmt.Errorf("status %d", resp.StatusCode)
	}
	return parseIntent(body)
}

// parseIntent pulls the completion text out of the response and decodes
// the JSON object it contains, tolerating prose around the object
func parseIntent(body []byte) (api.Intent, error) {
	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if content == "" {
		return api.Intent{}, errEmptyCompletion
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return api.Intent{}, fmt.Errorf(
			"%w: no JSON object in completion", errEmptyCompletion,
		)
	}

	var intent api.Intent
	if err := json.Unmarshal(
		[]byte(content[start:end+1]), &intent,
	); err != nil {
		return api.Intent{}, err
	}
	return intent, nil
}

// FallbackIntent is the canned intent used when extraction fails
func FallbackIntent() api.Intent {
	return api.Intent{
		Trigger: "user_signup",
		Actions: []api.IntentAction{{
			Type:     "send_email",
			Template: "welcome",
			Fields: map[string]string{
				"name":        "user.name",
				"email":       "user.email",
				"signup_date": "user.signup_date",
			},
		}},
	}
}
