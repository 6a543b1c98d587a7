package extract

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

// Schema type markers produced by the HTML heuristics
const (
	JSONType     = "json"
	FormDataType = "form_data"
)

// Auth keywords probed in order against the lowercased page text; the
// first hit wins
var authKeywords = []struct {
	keyword  string
	authType string
}{
	{"api key", "api_key"},
	{"api_key", "api_key"},
	{"x-api-key", "api_key"},
	{"authorization", "bearer_token"},
	{"bearer token", "bearer_token"},
	{"bearer", "bearer_token"},
	{"oauth", "oauth2"},
	{"oauth2", "oauth2"},
	{"openid connect", "oauth2"},
	{"basic auth", "basic_auth"},
	{"basic authentication", "basic_auth"},
	{"username password", "basic_auth"},
	{"jwt", "jwt_token"},
	{"json web token", "jwt_token"},
}

var (
	securityHints = []string{
		"authentication", "authorization", "security", "login", "token",
	}
	jsonBodyHints     = []string{"request body", "json", "payload", "data"}
	formBodyHints     = []string{"form", "form-data", "multipart"}
	jsonResponseHints = []string{"response", "json", "data", "result"}

	statusCodePattern = regexp.MustCompile(`\d{3}`)
)

// ScrapeHTML fetches an HTML documentation page and extracts endpoints
// best-effort: "<METHOD> <path>" lines inside table, pre, and code blocks.
// A page with no recognizable endpoints yields an empty list, not an
// error. Schemas derived this way are heuristic type markers only.
func (e *Extractor) ScrapeHTML(
	ctx context.Context, url string,
) ([]api.EndpointRecord, error) {
	doc, err := e.fetcher.GetHTML(ctx, url)
	if err != nil {
		return nil, err
	}
	return extractHTML(doc), nil
}

func extractHTML(doc *html.Node) []api.EndpointRecord {
	authType := guessAuth(strings.ToLower(blockText(doc)))

	records := []api.EndpointRecord{}
	for _, block := range codeBlocks(doc) {
		text := blockText(block)
		lower := strings.ToLower(text)
		for _, line := range strings.Split(text, "\n") {
			fields := strings.Fields(strings.TrimSpace(line))
			if len(fields) < 2 {
				continue
			}
			method, ok := api.ParseMethod(fields[0])
			if !ok || fields[0] != string(method) {
				continue
			}
			records = append(records, api.EndpointRecord{
				Method:       method,
				Path:         fields[1],
				AuthType:     authType,
				InputSchema:  htmlInputSchema(method, lower),
				OutputSchema: htmlOutputSchema(lower),
			})
		}
	}
	return records
}

// guessAuth scans page text for auth keywords, falling back to a generic
// marker when only vague security language is present
func guessAuth(lower string) string {
	for _, entry := range authKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.authType
		}
	}
	if containsAny(lower, securityHints) {
		return "authentication_required"
	}
	return "none"
}

func htmlInputSchema(method api.Method, lower string) *api.SchemaNode {
	if containsAny(lower, jsonBodyHints) {
		return api.TypeOnly(JSONType)
	}
	if containsAny(lower, formBodyHints) {
		return api.TypeOnly(FormDataType)
	}
	if method == api.MethodGet {
		return api.TypeOnly(api.NoneType)
	}
	return api.TypeOnly(api.UnknownType)
}

func htmlOutputSchema(lower string) *api.SchemaNode {
	if containsAny(lower, jsonResponseHints) {
		return api.TypeOnly(JSONType)
	}
	if statusCodePattern.MatchString(lower) {
		return api.TypeOnly(JSONType)
	}
	return api.TypeOnly(api.UnknownType)
}

func containsAny(s string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}

// codeBlocks collects table, pre, and code subtrees in document order
func codeBlocks(doc *html.Node) []*html.Node {
	var blocks []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Table, atom.Pre, atom.Code:
				blocks = append(blocks, n)
				return
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks
}

// blockText extracts visible text from a subtree, one text node per line
func blockText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
