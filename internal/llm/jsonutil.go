package llm

import (
	"regexp"
	"strings"
)

var (
	fencedJSONPattern    = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*?\\})\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON pulls a JSON object out of a model response, tolerating
// surrounding prose, markdown code fences, and trailing commas. Returns ""
// when no object can be found.
func ExtractJSON(text string) string {
	raw := ""
	if m := fencedJSONPattern.FindStringSubmatch(text); len(m) > 1 {
		raw = m[1]
	} else {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return ""
		}
		raw = text[start : end+1]
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}
