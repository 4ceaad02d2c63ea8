package llm

import "strings"

// StripMermaidFence removes the markdown fence the architecture template asks
// the model to wrap its diagram in, returning bare mermaid source with no
// leading or trailing blank lines. Running it on already-stripped input
// returns the input unchanged.
func StripMermaidFence(s string) string {
	out := strings.TrimSpace(s)

	lower := strings.ToLower(out)
	switch {
	case strings.HasPrefix(lower, "```mermaid"):
		out = out[len("```mermaid"):]
	case strings.HasPrefix(out, "```"):
		out = out[len("```"):]
	}
	out = strings.TrimSpace(out)

	if strings.HasSuffix(out, "```") {
		out = strings.TrimSpace(strings.TrimSuffix(out, "```"))
	}
	return out
}
