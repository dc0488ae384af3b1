// Package analyzers holds the pluggable per-section analyzers: the
// contract every analyzer satisfies, the registry that maps section
// names to analyzer factories, and the chunked multi-call protocol for
// sections too large for a single prompt.
package analyzers

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sysstate/snapai/pkg/llm"
	"github.com/sysstate/snapai/pkg/llmlog"
	"github.com/sysstate/snapai/pkg/report"
)

// SectionAnalyzer is the contract every section analyzer implements.
// All operations are pure functions over already-loaded data: they
// perform no I/O and must not fail on malformed input. Bad data
// degrades the metrics or prompt, never control flow.
type SectionAnalyzer interface {
	// SectionName is the stable identity used as the registry key.
	SectionName() string

	// OptionalInputFiles names other sections' files (e.g.
	// "Environment.json") this analyzer wants for cross-referencing.
	// The orchestrator resolves them from already-loaded snapshot
	// data; analyzers never read from disk.
	OptionalInputFiles() []string

	// BuildPrompt produces the analyzer-specific instruction text for
	// the section. additional carries the resolved optional inputs
	// keyed by section name and may be nil. The universal response
	// format wrapper is applied by the caller, exactly once.
	BuildPrompt(sectionData any, additional map[string]any) string

	// ExtractKeyMetrics derives summary statistics used to enrich the
	// prompt with concrete numbers. It returns a degraded-but-valid
	// mapping for unexpected data shapes.
	ExtractKeyMetrics(sectionData any) map[string]any

	// SupportsChunking reports whether this analyzer must be driven
	// through the chunked multi-call protocol. Analyzers returning
	// true also implement ChunkedAnalyzer.
	SupportsChunking() bool
}

// ChunkedAnalyzer is the variant of the contract for analyzers that
// split their section into category buckets, each analyzed with a
// separate LLM call.
type ChunkedAnalyzer interface {
	SectionAnalyzer

	// AnalyzeChunked runs the full chunked protocol and returns one
	// section-level result combining the per-category outcomes. A
	// failed category call becomes an error note, never a panic or a
	// section-level failure.
	AnalyzeChunked(rt Runtime, sectionData any, additional map[string]any) report.Result
}

// Runtime bundles the collaborators a chunked analysis needs. It is
// passed explicitly instead of living in package-level state.
type Runtime struct {
	LLM          llm.Client
	Log          logrus.FieldLogger
	Interactions *llmlog.Logger
}

// maxSectionJSON caps the serialized section data embedded in a
// standard prompt, to stay inside the model's context window.
const maxSectionJSON = 10000

// truncationMarker is appended whenever section data is cut off.
const truncationMarker = "... [truncated for length]"

// responseTemplate is the JSON structure every section analysis asks
// the model to produce.
const responseTemplate = `{
  "issues": [
    {
      "severity": "critical|high|medium|low",
      "title": "Brief description of the issue",
      "description": "Detailed explanation",
      "recommendation": "Specific action to resolve or improve"
    }
  ],
  "optimizations": [
    {
      "impact": "high|medium|low",
      "title": "Brief description of the optimization",
      "description": "Detailed explanation",
      "recommendation": "Specific action to implement"
    }
  ],
  "summary": "Brief overall assessment of this section"
}`

// WrapPrompt surrounds an analyzer's core instructions with the
// universal boilerplate: which section is being analyzed, the expected
// response structure, and the JSON-only directive. It is applied
// exactly once per prompt regardless of which analyzer built the core.
func WrapPrompt(sectionName, core string) string {
	return fmt.Sprintf(`
You are analyzing the '%s' section of a Windows system state snapshot.

%s

Provide your analysis as JSON with the following structure:
%s

Important: Respond ONLY with valid JSON, no other text before or after.
`, sectionName, core, responseTemplate)
}

// compactJSON serializes v for embedding in a prompt. Unserializable
// data degrades to an error placeholder instead of failing the prompt
// build.
func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "could not serialize data: %s"}`, err)
	}
	return string(b)
}

// truncate caps s at max characters, appending the truncation marker
// when anything was cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + truncationMarker
}

// asList coerces section data to a list, returning nil for any other
// shape.
func asList(data any) []any {
	list, _ := data.([]any)
	return list
}

// asMap coerces section data to an object, returning nil for any other
// shape.
func asMap(data any) map[string]any {
	m, _ := data.(map[string]any)
	return m
}

// stringField reads a string field from a JSON object item.
func stringField(item any, key string) string {
	m, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// numberField reads a numeric field from a JSON object item; ok is
// false when the field is absent or not a number.
func numberField(item any, key string) (float64, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return 0, false
	}
	f, ok := m[key].(float64)
	return f, ok
}

// boolField reads a boolean field from a JSON object item; ok is false
// when the field is absent or not a boolean.
func boolField(item any, key string) (bool, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return false, false
	}
	b, ok := m[key].(bool)
	return b, ok
}
