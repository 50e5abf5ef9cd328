package enrich

import (
	"bytes"
	"fmt"

	"github.com/cognicore/glossary/pkg/glossary/term"
)

// SystemPrompt frames the enrichment request.
const SystemPrompt = "You are a data governance and business domain expert. Reply with a single JSON object."

// BuildPrompt formats the enrichment request for one candidate.
func BuildPrompt(c term.Candidate, maxSentences int) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Based on the term, its usage context and the domain hint, write a business glossary entry.\n\n")
	fmt.Fprintf(&buf, "TERM: %q\n", c.Term)
	fmt.Fprintf(&buf, "DOMAIN HINT: %s\n\n", c.DomainHint())
	fmt.Fprintf(&buf, "CONTEXT EXAMPLES:\n")
	for _, s := range c.Sentences(maxSentences) {
		fmt.Fprintf(&buf, "%s\n", s)
	}
	fmt.Fprintf(&buf, "\nReturn JSON with the following fields:\n")
	fmt.Fprintf(&buf, "- term_definition: one or two sentences defining the business meaning of the term.\n")
	fmt.Fprintf(&buf, "- business_domain: the most relevant domain (keep the hint if it fits).\n")
	fmt.Fprintf(&buf, "- synonyms: list of 2-4 short synonymous or related terms.\n")
	fmt.Fprintf(&buf, "- term_context: one or two sentences describing how the term is used.\n")
	return buf.String()
}
