package report

import (
	"encoding/json"
)

// Issue is a single problem the model identified in a section.
// Category is set only when the issue came out of a chunked analysis.
type Issue struct {
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
	Category       string `json:"category,omitempty"`
}

// Optimization is an improvement opportunity, mirroring Issue with an
// impact level instead of a severity.
type Optimization struct {
	Impact         string `json:"impact"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
	Category       string `json:"category,omitempty"`
}

// Result is the outcome of analyzing one section (or one chunk
// category). It is a union: a successful analysis carries issues,
// optimizations and a summary; a failed one carries Error and
// optionally the raw response or a stack trace.
type Result struct {
	Issues        []Issue        `json:"issues,omitempty"`
	Optimizations []Optimization `json:"optimizations,omitempty"`
	Summary       string         `json:"summary,omitempty"`

	Error     string `json:"error,omitempty"`
	Raw       string `json:"raw_response,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

// IsError reports whether this result is the failure variant.
func (r Result) IsError() bool { return r.Error != "" }

// ErrorResult builds the failure variant of Result.
func ErrorResult(msg string) Result {
	return Result{Error: msg}
}

// ResultFromMap converts an extracted LLM response into a Result.
// The decoding is lenient: unrecognized keys are ignored and a
// malformed subtree degrades to an empty field instead of failing the
// whole section. A map carrying an "error" key (the extractor sentinel
// or a model-emitted error) becomes the failure variant.
func ResultFromMap(m map[string]any) Result {
	if errVal, ok := m["error"]; ok {
		res := Result{Error: errorMessage(m, errVal)}
		if raw, ok := m["raw_response"].(string); ok {
			res.Raw = raw
		}
		return res
	}

	var res Result
	if s, ok := m["summary"].(string); ok {
		res.Summary = s
	}
	if list, ok := m["issues"].([]any); ok {
		for _, item := range list {
			var issue Issue
			if decodeInto(item, &issue) {
				res.Issues = append(res.Issues, issue)
			}
		}
	}
	if list, ok := m["optimizations"].([]any); ok {
		for _, item := range list {
			var opt Optimization
			if decodeInto(item, &opt) {
				res.Optimizations = append(res.Optimizations, opt)
			}
		}
	}
	return res
}

func errorMessage(m map[string]any, errVal any) string {
	// The extractor sentinel uses {"error": true, "message": ...};
	// models sometimes answer {"error": "text"} directly.
	if s, ok := errVal.(string); ok && s != "" {
		return s
	}
	if msg, ok := m["message"].(string); ok && msg != "" {
		return msg
	}
	return "analysis failed"
}

func decodeInto(v any, out any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// Recommendation is one prioritized entry of the overall summary.
type Recommendation struct {
	Priority    int    `json:"priority"`
	Description string `json:"description"`
	Rationale   string `json:"rationale,omitempty"`
}

// Summary is the system-wide verdict produced by the final aggregation
// call, or its failure variant.
type Summary struct {
	OverallHealth           string           `json:"overall_health,omitempty"`
	CriticalIssuesCount     int              `json:"critical_issues_count"`
	HighPriorityIssuesCount int              `json:"high_priority_issues_count"`
	TopRecommendations      []Recommendation `json:"top_recommendations,omitempty"`
	SystemAssessment        string           `json:"system_assessment,omitempty"`
	NextSteps               string           `json:"next_steps,omitempty"`

	Error string `json:"-"`
	Raw   string `json:"-"`
}

// IsError reports whether the summary step failed.
func (s Summary) IsError() bool { return s.Error != "" }

// MarshalJSON renders either the verdict or, on failure, a compact
// error object so the report still carries a summary entry.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.IsError() {
		out := map[string]any{"error": s.Error}
		if s.Raw != "" {
			out["raw_response"] = s.Raw
		}
		return json.Marshal(out)
	}
	type plain Summary // avoid recursing into MarshalJSON
	return json.Marshal(plain(s))
}

// SummaryFromMap decodes the aggregation call's response leniently,
// mirroring ResultFromMap.
func SummaryFromMap(m map[string]any) Summary {
	if errVal, ok := m["error"]; ok {
		s := Summary{Error: errorMessage(m, errVal)}
		if raw, ok := m["raw_response"].(string); ok {
			s.Raw = raw
		}
		return s
	}

	var s Summary
	if v, ok := m["overall_health"].(string); ok {
		s.OverallHealth = v
	}
	if v, ok := m["critical_issues_count"].(float64); ok {
		s.CriticalIssuesCount = int(v)
	}
	if v, ok := m["high_priority_issues_count"].(float64); ok {
		s.HighPriorityIssuesCount = int(v)
	}
	if v, ok := m["system_assessment"].(string); ok {
		s.SystemAssessment = v
	}
	if v, ok := m["next_steps"].(string); ok {
		s.NextSteps = v
	}
	if list, ok := m["top_recommendations"].([]any); ok {
		for _, item := range list {
			var rec Recommendation
			if decodeInto(item, &rec) {
				s.TopRecommendations = append(s.TopRecommendations, rec)
			}
		}
	}
	return s
}

// SummaryError builds the failure variant of Summary.
func SummaryError(msg string) Summary {
	return Summary{Error: msg}
}

// Metadata describes one analysis run.
type Metadata struct {
	AnalyzedAt       string         `json:"analyzed_at"`
	RunID            string         `json:"run_id"`
	AnalyzerVersion  string         `json:"analyzer_version"`
	ServerURL        string         `json:"server_url,omitempty"`
	Model            string         `json:"model,omitempty"`
	SnapshotMetadata map[string]any `json:"snapshot_metadata"`
}

// Report is the complete output of one snapshot analysis: exactly one
// Result per loaded section, plus the overall summary.
type Report struct {
	Metadata Metadata          `json:"metadata"`
	Sections map[string]Result `json:"sections"`
	Summary  Summary           `json:"summary"`
}
