package extract

import (
	"context"
	"sort"
	"strings"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/schema"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

// Extractor turns fetched documentation into canonical endpoint records
type Extractor struct {
	fetcher *Fetcher
}

// Request-body content types in preference order; the first present wins
var preferredContentTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Success codes probed in order for a JSON response schema
var successCodes = []string{"200", "201", "202", "204"}

// NewExtractor creates an extractor using the given fetcher
func NewExtractor(f *Fetcher) *Extractor {
	return &Extractor{fetcher: f}
}

// ScrapeOpenAPI fetches an OpenAPI/Swagger JSON spec and extracts one
// record per (path, method) pair, restricted to the recognized verbs
func (e *Extractor) ScrapeOpenAPI(
	ctx context.Context, url string,
) ([]api.EndpointRecord, error) {
	doc, err := e.fetcher.GetJSON(ctx, url)
	if err != nil {
		return nil, err
	}
	return extractOpenAPI(doc), nil
}

func extractOpenAPI(doc map[string]any) []api.EndpointRecord {
	authType := documentAuth(doc)
	paths, _ := doc["paths"].(map[string]any)

	records := make([]api.EndpointRecord, 0, len(paths))
	for _, path := range sortedKeys(paths) {
		ops, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, verb := range sortedKeys(ops) {
			method, ok := api.ParseMethod(verb)
			if !ok {
				continue
			}
			details, ok := ops[verb].(map[string]any)
			if !ok {
				continue
			}
			records = append(records, api.EndpointRecord{
				Method:       method,
				Path:         path,
				AuthType:     authType,
				InputSchema:  inputSchema(doc, details),
				OutputSchema: outputSchema(doc, details),
			})
		}
	}
	return records
}

// documentAuth derives a single auth description for the whole document
// from its declared security schemes. The requirement suffix reflects
// whether a document-level security constraint exists.
func documentAuth(doc map[string]any) string {
	components, _ := doc["components"].(map[string]any)
	schemes, _ := components["securitySchemes"].(map[string]any)
	if len(schemes) == 0 {
		return "none"
	}

	types := make([]string, 0, len(schemes))
	for _, name := range sortedKeys(schemes) {
		details, _ := schemes[name].(map[string]any)
		types = append(types, schemeAuth(details))
	}
	joined := strings.Join(types, ", ")

	if security, ok := doc["security"].([]any); ok && len(security) > 0 {
		return joined + " (required)"
	}
	return joined + " (optional)"
}

func schemeAuth(details map[string]any) string {
	typ, _ := details["type"].(string)
	switch typ {
	case "http":
		scheme, _ := details["scheme"].(string)
		switch scheme {
		case "bearer":
			return "bearer_token"
		case "basic":
			return "basic_auth"
		case "":
			return "http_unknown"
		default:
			return "http_" + scheme
		}
	case "apiKey":
		return "api_key"
	case "oauth2":
		return "oauth2"
	case "":
		return api.UnknownType
	default:
		return typ
	}
}

// inputSchema extracts the request-body schema, preferring the common
// content types. No request body at all means no input, while a body whose
// schema cannot be located degrades to the unknown marker.
func inputSchema(doc, details map[string]any) *api.SchemaNode {
	body, ok := details["requestBody"].(map[string]any)
	if !ok || len(body) == 0 {
		return api.TypeOnly(api.NoneType)
	}

	content, _ := body["content"].(map[string]any)
	for _, ct := range preferredContentTypes {
		if entry, ok := content[ct].(map[string]any); ok {
			return contentSchema(doc, entry)
		}
	}
	if len(content) > 0 {
		first := sortedKeys(content)[0]
		if entry, ok := content[first].(map[string]any); ok {
			return contentSchema(doc, entry)
		}
	}
	return api.TypeOnly(api.UnknownType)
}

// outputSchema extracts the response schema: success codes with a JSON
// body win, then any response with content, then the unknown marker
func outputSchema(doc, details map[string]any) *api.SchemaNode {
	responses, ok := details["responses"].(map[string]any)
	if !ok || len(responses) == 0 {
		return api.TypeOnly(api.NoneType)
	}

	for _, code := range successCodes {
		response, ok := responses[code].(map[string]any)
		if !ok {
			continue
		}
		content, _ := response["content"].(map[string]any)
		if entry, ok := content["application/json"].(map[string]any); ok {
			return contentSchema(doc, entry)
		}
	}

	for _, code := range sortedKeys(responses) {
		response, ok := responses[code].(map[string]any)
		if !ok {
			continue
		}
		content, _ := response["content"].(map[string]any)
		if len(content) == 0 {
			continue
		}
		first := sortedKeys(content)[0]
		if entry, ok := content[first].(map[string]any); ok {
			return contentSchema(doc, entry)
		}
	}
	return api.TypeOnly(api.UnknownType)
}

func contentSchema(doc, entry map[string]any) *api.SchemaNode {
	s, _ := entry["schema"].(map[string]any)
	return schema.Flatten(doc, s)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
