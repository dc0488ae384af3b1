package analyzers

import (
	"github.com/sysstate/snapai/pkg/report"
)

// NetworkAnalyzer analyzes the network configuration section. The
// section nests several independent lists, so analysis is chunked by
// structural component rather than sent as one oversized prompt.
type NetworkAnalyzer struct{}

func NewNetworkAnalyzer() *NetworkAnalyzer { return &NetworkAnalyzer{} }

func (a *NetworkAnalyzer) SectionName() string { return "Network" }

func (a *NetworkAnalyzer) OptionalInputFiles() []string {
	return []string{"RunningServices.json", "ActiveConnections.json", "FirewallRules.json"}
}

func (a *NetworkAnalyzer) SupportsChunking() bool { return true }

func (a *NetworkAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	return networkMetrics(sectionData)
}

// BuildPrompt covers the single-call path, for example when the section
// is dispatched without chunking support.
func (a *NetworkAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	return networkPrompt(sectionData)
}

// networkComponents fixes the per-component analysis order.
var networkComponents = []struct {
	name string
	key  string
}{
	{"adapters", "Adapters"},
	{"ip_config", "IPConfiguration"},
	{"dns", "DNSSettings"},
	{"connections", "ActiveConnections"},
}

// AnalyzeChunked analyzes each structural component with its own LLM
// call and consolidates the outcomes into one section result.
func (a *NetworkAnalyzer) AnalyzeChunked(rt Runtime, sectionData any, additional map[string]any) report.Result {
	data := asMap(sectionData)
	if data == nil {
		return report.ErrorResult("Invalid network data format")
	}

	var calls []chunkCall
	for _, component := range networkComponents {
		componentData := data[component.key]
		if list := asList(componentData); len(list) == 0 {
			rt.Log.Warnf("Network component %q is empty, skipping", component.name)
			continue
		}
		calls = append(calls, chunkCall{
			Name:   component.name,
			Prompt: networkComponentPrompt(component.name, componentData),
		})
	}

	metrics := a.ExtractKeyMetrics(sectionData)
	return runChunked(rt, a.SectionName(), calls, func(summaries []string) string {
		return networkSummaryPrompt(summaries, metrics)
	})
}
