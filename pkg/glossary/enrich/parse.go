package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
)

// Result is a decoded enrichment reply
type Result struct {
	Definition     string
	BusinessDomain string
	Synonyms       []string
	TermContext    string
}

type reply struct {
	Definition     string          `json:"term_definition"`
	BusinessDomain *string         `json:"business_domain"`
	Synonyms       json.RawMessage `json:"synonyms"`
	TermContext    json.RawMessage `json:"term_context"`
}

// Parse decodes the JSON object spanning the first '{' to the last '}'
// of raw. A missing business_domain falls back to hint and missing
// synonyms to an empty list. An empty definition is an error.
func Parse(raw, hint string) (Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Result{}, fmt.Errorf("%w: no JSON object in reply", internalerr.ErrEnrichment)
	}

	var r reply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &r); err != nil {
		return Result{}, fmt.Errorf("%w: decode reply: %w", internalerr.ErrEnrichment, err)
	}
	def := strings.TrimSpace(r.Definition)
	if def == "" {
		return Result{}, fmt.Errorf("%w: empty term_definition", internalerr.ErrEnrichment)
	}

	out := Result{Definition: def, BusinessDomain: hint, Synonyms: []string{}}
	if r.BusinessDomain != nil && strings.TrimSpace(*r.BusinessDomain) != "" {
		out.BusinessDomain = strings.TrimSpace(*r.BusinessDomain)
	}
	out.Synonyms = synonyms(r.Synonyms)
	out.TermContext = termContext(r.TermContext)
	return out, nil
}

// synonyms accepts a list of strings or a single comma separated string.
// Anything else yields an empty list.
func synonyms(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var one string
		if err := json.Unmarshal(raw, &one); err != nil {
			return []string{}
		}
		list = strings.Split(one, ",")
	}
	out := []string{}
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// termContext accepts a JSON string or keeps any other value verbatim.
func termContext(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}
