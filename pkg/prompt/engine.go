// Package prompt resolves the prompt-building strategy for each
// snapshot section and produces the overall summary prompt.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sysstate/snapai/pkg/analyzers"
	"github.com/sysstate/snapai/pkg/report"
)

// Engine builds prompts from snapshot data, delegating to registered
// section analyzers and falling back to a generic prompt for sections
// without one.
type Engine struct {
	registry *analyzers.Registry
}

func NewEngine(registry *analyzers.Registry) *Engine {
	return &Engine{registry: registry}
}

// CreateSectionPrompt builds the analysis prompt for one section.
// allSections carries every loaded section so analyzers can pull in
// their declared optional inputs; sections not present are skipped.
func (e *Engine) CreateSectionPrompt(sectionName string, sectionData any, allSections map[string]any) string {
	analyzer, ok := e.registry.Lookup(sectionName)
	if !ok {
		return e.genericPrompt(sectionName, sectionData)
	}

	additional := map[string]any{}
	for _, fileName := range analyzer.OptionalInputFiles() {
		optSection := strings.TrimSuffix(fileName, ".json")
		if data, ok := allSections[optSection]; ok {
			additional[optSection] = data
		}
	}

	return analyzers.WrapPrompt(sectionName, analyzer.BuildPrompt(sectionData, additional))
}

// genericPrompt covers sections with no registered analyzer using a
// fixed default instruction set.
func (e *Engine) genericPrompt(sectionName string, sectionData any) string {
	data := ""
	if b, err := json.Marshal(sectionData); err == nil {
		data = string(b)
	} else {
		data = fmt.Sprintf(`{"error": "could not serialize data: %s"}`, err)
	}
	if len(data) > 10000 {
		data = data[:10000] + "... [truncated for length]"
	}

	core := fmt.Sprintf(`Analyze this section data:
1. Identify potential issues or security risks
2. Find optimization opportunities
3. Look for unusual or suspicious configurations
4. Suggest concrete improvements
5. Prioritize recommendations by importance

The data for this section is:
`+"```json\n%s\n```", data)

	return analyzers.WrapPrompt(sectionName, core)
}

// importantIssue is one critical or high severity issue harvested for
// the summary prompt.
type importantIssue struct {
	Section        string `json:"section"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Recommendation string `json:"recommendation"`
}

// CreateSummaryPrompt builds the prompt asking for an overall system
// verdict from the per-section results. Sections that failed to analyze
// contribute no issues.
func (e *Engine) CreateSummaryPrompt(sections map[string]report.Result, sectionOrder []string, snapshotMetadata map[string]any) string {
	var important []importantIssue
	for _, sectionName := range sectionOrder {
		analysis, ok := sections[sectionName]
		if !ok || analysis.IsError() {
			continue
		}
		for _, issue := range analysis.Issues {
			if issue.Severity == "critical" || issue.Severity == "high" {
				important = append(important, importantIssue{
					Section:        sectionName,
					Severity:       issue.Severity,
					Title:          issue.Title,
					Recommendation: issue.Recommendation,
				})
			}
		}
	}

	issuesJSON, err := json.MarshalIndent(important, "", "  ")
	if err != nil {
		issuesJSON = []byte("[]")
	}

	computerName, _ := snapshotMetadata["ComputerName"].(string)
	osVersion, _ := snapshotMetadata["OSVersion"].(string)

	return fmt.Sprintf(`
You are analyzing a Windows system state snapshot from computer %s running %s.

Based on the important issues found in the analysis, create an overall system summary.

Important issues detected:
`+"```json\n%s\n```"+`

Provide your summary as JSON with the following structure:
{
  "overall_health": "good|fair|poor",
  "critical_issues_count": number,
  "high_priority_issues_count": number,
  "top_recommendations": [
    {
      "priority": 1,
      "description": "Clear description of the recommendation",
      "rationale": "Why this is important"
    }
  ],
  "system_assessment": "Brief overall assessment of system health, performance, and security",
  "next_steps": "Suggested next actions for the system administrator"
}

Important: Respond ONLY with valid JSON, no other text before or after.
`, computerName, osVersion, issuesJSON)
}
