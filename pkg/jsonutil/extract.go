package jsonutil

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Matches the outermost curly-brace block in a response that mixes
// prose and JSON.
var jsonBlockRe = regexp.MustCompile(`(?s)(\{.*\})`)

// ExtractJSON pulls a JSON object out of a model response, tolerating
// extra text before or after the JSON. It never returns an error: when
// nothing parseable is found it returns a sentinel map with "error" set
// to true and the raw response preserved, which callers treat as data.
func ExtractJSON(response string) map[string]any {
	// Whole response might already be valid JSON.
	if m, ok := tryParse(response); ok {
		return m
	}

	// Strip markdown code fences the model sometimes adds.
	if m, ok := tryParse(stripFences(response)); ok {
		return m
	}

	// Look for an outermost curly-brace block.
	if match := jsonBlockRe.FindStringSubmatch(response); match != nil {
		if m, ok := tryParse(match[1]); ok {
			return m
		}
	}

	// Last resort: everything between the first '{' and the last '}'.
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end > start {
		if m, ok := tryParse(response[start : end+1]); ok {
			return m
		}
	}

	return map[string]any{
		"error":        true,
		"message":      "Failed to parse model response as JSON",
		"raw_response": response,
	}
}

func tryParse(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")

func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}
