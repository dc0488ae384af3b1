package analyzers

import (
	"fmt"
	"sort"
	"strings"
)

// Keyword tables for classifying startup entries.
var (
	// Generic names that frequently hide unwanted auto-starters.
	startupSuspiciousKeywords = []string{
		"update", "helper", "daemon", "tray", "scheduler", "manager", "monitor",
		"launch", "startup", "boot", "assistant", "notif", "agent", "sync",
		"cloud", "cache", "tune", "speedup", "optimize", "clean",
	}

	// Well-known software that legitimately starts with Windows.
	startupCommonLegitimate = []string{
		"OneDrive", "Dropbox", "Google Drive", "Microsoft Teams", "Slack",
		"Discord", "Spotify", "Steam", "Epic Games", "Windows Security",
		"Realtek Audio", "NVIDIA", "AMD", "Intel", "Synaptics", "Dell",
		"HP", "Lenovo", "Apple", "iCloud", "Adobe Creative Cloud",
	}

	// Programs known to noticeably slow boot times.
	startupHighImpact = []string{
		"Adobe", "Teams", "Skype", "Steam", "Epic", "Defender", "Antivirus",
		"iTunes", "iCloud", "Spotify", "Backup", "Sync",
	}
)

// StartupProgramsAnalyzer analyzes the startup programs section.
type StartupProgramsAnalyzer struct{}

func NewStartupProgramsAnalyzer() *StartupProgramsAnalyzer { return &StartupProgramsAnalyzer{} }

func (a *StartupProgramsAnalyzer) SectionName() string { return "StartupPrograms" }

func (a *StartupProgramsAnalyzer) OptionalInputFiles() []string {
	return []string{"RegistrySettings.json", "InstalledPrograms.json"}
}

func (a *StartupProgramsAnalyzer) SupportsChunking() bool { return false }

func (a *StartupProgramsAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	items := asList(sectionData)
	if items == nil {
		return map[string]any{"total_startup_items": 0}
	}

	locations := map[string]int{}
	suspicious := 0
	highImpact := 0

	for _, item := range items {
		location := stringField(item, "Location")
		if location == "" {
			location = "Unknown"
		}
		locations[location]++

		name := strings.ToLower(stringField(item, "Name"))
		command := strings.ToLower(stringField(item, "Command"))

		if matchesAnyKeyword(name, command, startupSuspiciousKeywords) &&
			!matchesAnyKeyword(name, command, startupCommonLegitimate) {
			suspicious++
		}
		if matchesAnyKeyword(name, command, startupHighImpact) {
			highImpact++
		}
	}

	return map[string]any{
		"total_startup_items":     len(items),
		"locations":               locations,
		"suspicious_items_count":  suspicious,
		"high_impact_items_count": highImpact,
	}
}

func matchesAnyKeyword(name, command string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(name, kw) || strings.Contains(command, kw) {
			return true
		}
	}
	return false
}

func (a *StartupProgramsAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxSectionJSON)
	metrics := a.ExtractKeyMetrics(sectionData)

	var locationsStr strings.Builder
	if locations, ok := metrics["locations"].(map[string]int); ok {
		for _, loc := range sortedKeys(locations) {
			fmt.Fprintf(&locationsStr, "  - %s: %d\n", loc, locations[loc])
		}
	}

	// Registry startup entries, when captured, expose auto-starters the
	// startup folder listing misses.
	registryContext := ""
	if registry, ok := asMap(additional["RegistrySettings"])["StartupPrograms"]; ok {
		registryJSON := truncate(compactJSON(registry), 1000)
		registryContext = fmt.Sprintf("\nAlso consider the following registry startup entries that may provide additional context:\n```json\n%s\n```\n", registryJSON)
	}

	installedContext := ""
	if installed, ok := additional["InstalledPrograms"]; ok {
		if list := asList(installed); list != nil {
			installedContext = fmt.Sprintf("\nThe system has approximately %d programs installed.", len(list))
		}
	}

	return fmt.Sprintf(`Analyze the startup programs data to identify potential issues, security risks, and performance impacts:

1. Identify applications that could slow system boot time
   - Look for resource-intensive applications
   - Note applications that might not need to start automatically
   - Check for redundant startup items serving similar functions

2. Assess security implications
   - Look for suspicious or unrecognized startup entries
   - Identify potential autorun malware or unwanted software
   - Note unusual command line parameters or file locations

3. Evaluate performance impact
   - Categorize startup items by their likely impact on boot time
   - Identify items that could be delayed or disabled to improve boot time
   - Look for applications that should be configured to start on-demand instead

4. Check for configuration issues
   - Identify broken startup entries pointing to missing files
   - Look for duplicated entries across different startup locations
   - Note unclear or ambiguous startup command lines

Key metrics:
- Total startup items: %d
- Items by location:
%s- Potentially suspicious items: %d
- High-impact items (may slow boot): %d
%s

The startup programs data for analysis:
`+"```json\n%s\n```\n%s",
		metrics["total_startup_items"],
		locationsStr.String(),
		metrics["suspicious_items_count"],
		metrics["high_impact_items_count"],
		installedContext,
		sectionJSON,
		registryContext)
}

// sortedKeys returns map keys in a stable order for prompt rendering.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
