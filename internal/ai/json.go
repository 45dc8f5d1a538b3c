package ai

import "strings"

// ExtractJSONObject pulls the first JSON object out of a model response,
// tolerating markdown code fences and surrounding prose. Returns "" when no
// object is found. Parsing is left to the caller.
func ExtractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// Strip ```json ... ``` fences if present.
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}
