package analyzers

import (
	"fmt"
	"strings"

	"github.com/sysstate/snapai/pkg/jsonutil"
	"github.com/sysstate/snapai/pkg/report"
)

// chunkCall is one category bucket of a chunked analysis: the bucket's
// name and the fully built prompt for its LLM call. Empty categories
// are never turned into calls.
type chunkCall struct {
	Name   string
	Prompt string
}

// runChunked drives the multi-call protocol shared by all chunked
// analyzers: one LLM call per category in the given order, per-call
// failure isolation, category tagging of issues and optimizations, and
// a final consolidation call whose failure falls back to concatenating
// the per-category summaries.
func runChunked(rt Runtime, section string, calls []chunkCall, summaryPrompt func(categorySummaries []string) string) report.Result {
	var (
		allIssues        []report.Issue
		allOptimizations []report.Optimization
		summaries        []string
	)

	for _, call := range calls {
		rt.Log.Infof("Analyzing %s category: %s", section, call.Name)
		logKey := fmt.Sprintf("%s_%s", section, call.Name)

		response, err := rt.LLM.Generate(call.Prompt)
		if err != nil {
			// One failed category must not abort the rest.
			rt.Log.Errorf("Error analyzing %s category %s: %v", section, call.Name, err)
			rt.Interactions.Failure(logKey, call.Prompt, err.Error(), "")
			summaries = append(summaries, fmt.Sprintf("Error analyzing %s: %v", call.Name, err))
			continue
		}
		rt.Interactions.Success(logKey, call.Prompt, response)

		analysis := report.ResultFromMap(jsonutil.ExtractJSON(response))
		if analysis.IsError() {
			summaries = append(summaries, fmt.Sprintf("Error analyzing %s: %s", call.Name, analysis.Error))
			continue
		}

		for _, issue := range analysis.Issues {
			issue.Category = call.Name
			allIssues = append(allIssues, issue)
		}
		for _, opt := range analysis.Optimizations {
			opt.Category = call.Name
			allOptimizations = append(allOptimizations, opt)
		}
		if analysis.Summary != "" {
			summaries = append(summaries, fmt.Sprintf("%s: %s", strings.ToUpper(call.Name), analysis.Summary))
		}
	}

	combined := report.Result{
		Issues:        allIssues,
		Optimizations: allOptimizations,
	}

	if len(summaries) == 0 {
		combined.Summary = fmt.Sprintf("No analysis could be generated for any %s categories.", section)
		return combined
	}

	combined.Summary = consolidateSummaries(rt, section, summaries, summaryPrompt)
	return combined
}

// consolidateSummaries asks the model for one overall summary of the
// per-category summaries. Any failure falls back to the verbatim
// concatenation in processing order; this step never hard-fails.
func consolidateSummaries(rt Runtime, section string, summaries []string, summaryPrompt func([]string) string) string {
	fallback := strings.Join(summaries, "\n")
	logKey := fmt.Sprintf("%s_summary", section)

	prompt := summaryPrompt(summaries)
	response, err := rt.LLM.Generate(prompt)
	if err != nil {
		rt.Log.Errorf("Error generating overall summary for %s analysis: %v", section, err)
		rt.Interactions.Failure(logKey, prompt, err.Error(), "")
		return fallback
	}
	rt.Interactions.Success(logKey, prompt, response)

	parsed := jsonutil.ExtractJSON(response)
	if s, ok := parsed["summary"].(string); ok && s != "" {
		return s
	}
	return fallback
}
