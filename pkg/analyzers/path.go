package analyzers

import "fmt"

// PathAnalyzer analyzes the PATH environment variable section.
type PathAnalyzer struct{}

func NewPathAnalyzer() *PathAnalyzer { return &PathAnalyzer{} }

func (a *PathAnalyzer) SectionName() string { return "Path" }

func (a *PathAnalyzer) OptionalInputFiles() []string {
	// Environment variables give useful context for PATH entries.
	return []string{"Environment.json"}
}

func (a *PathAnalyzer) SupportsChunking() bool { return false }

func (a *PathAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	entries := asList(sectionData)

	total := len(entries)
	invalid := 0
	for _, entry := range entries {
		if exists, ok := boolField(entry, "Exists"); ok && !exists {
			invalid++
		}
	}

	return map[string]any{
		"total_path_entries":   total,
		"invalid_path_entries": invalid,
		"valid_path_entries":   total - invalid,
	}
}

func (a *PathAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxSectionJSON)
	metrics := a.ExtractKeyMetrics(sectionData)

	return fmt.Sprintf(`Analyze the PATH environment variable data:

1. Check for invalid paths that don't exist (marked with "Exists": false)
2. Identify potential security risks:
   - Writable directories that could allow privilege escalation
   - Non-system directories appearing before system directories
   - Unusual or suspicious path entries
3. Look for duplicate entries that waste resources
4. Check for proper ordering of important entries (Windows system directories should come first)
5. Identify unnecessary or obsolete entries

Key metrics:
- Total PATH entries: %d
- Invalid PATH entries: %d
- Valid PATH entries: %d

The PATH data for analysis:
`+"```json\n%s\n```",
		metrics["total_path_entries"],
		metrics["invalid_path_entries"],
		metrics["valid_path_entries"],
		sectionJSON)
}
