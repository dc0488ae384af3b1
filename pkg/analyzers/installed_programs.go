package analyzers

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sysstate/snapai/pkg/report"
)

// Keyword tables for classifying installed software by name.
var softwareCategories = map[string][]string{
	"security": {
		"antivirus", "firewall", "protection", "security", "defender",
		"malware", "encrypt", "vpn", "norton", "mcafee", "kaspersky",
		"avast", "bitdefender",
	},
	"development": {
		"visual studio", "vscode", "python", "node", "npm", "git", "docker",
		"kubernetes", "compiler", "ide", "java", "sdk", "development kit",
		"android studio", "xcode", "intellij", "pycharm", "eclipse",
	},
	"utilities": {
		"driver", "utility", "tool", "cleanup", "monitor", "backup", "restore",
		"system", "maintenance", "manager", "cleaner", "optimizer",
	},
	"bloatware": {
		"toolbar", "coupon", "offer", "trial", "shopping assistant", "browser helper",
		"optimizer", "cleaner", "speedup", "pc tune", "free gift", "win prize",
	},
}

// programCategoryOrder is the first-match classification priority for
// chunked analysis. An item lands in the first category whose predicate
// matches; unmatched items go to "other".
var programCategoryOrder = []string{"recent", "security", "development", "utilities", "bloatware"}

// Per-category guidance added to each chunk prompt.
var programCategoryGuidance = map[string]string{
	"recent":      "These programs were installed within the last 30 days. Pay special attention to whether they are expected, legitimate, and from trusted vendors.",
	"security":    "These are security-related programs. Check for redundant or conflicting security products, expired trials, and gaps in protection.",
	"development": "These are development tools. Check for outdated toolchains, redundant installations, and tools that may no longer be needed.",
	"utilities":   "These are system utilities. Check for redundant utilities, known problematic tools, and utilities duplicating built-in Windows functionality.",
	"bloatware":   "These programs match common bloatware patterns. Assess whether they provide real value or should be removed.",
	"other":       "These programs did not match any specific category. Look for anything unusual, outdated, or suspicious.",
}

// installDateRe matches the registry's YYYYMMDD install date format.
var installDateRe = regexp.MustCompile(`^\d{8}$`)

// recentInstallDays is the window for treating an installation as recent.
const recentInstallDays = 30

// chunkSampleCap bounds how many items of one category go into a prompt.
const chunkSampleCap = 25

// InstalledProgramsAnalyzer analyzes the installed programs section. The
// section is typically too large for one prompt, so analysis runs
// through the chunked protocol with first-match category bucketing.
type InstalledProgramsAnalyzer struct {
	// now is a hook for tests; zero value means time.Now.
	now func() time.Time
}

func NewInstalledProgramsAnalyzer() *InstalledProgramsAnalyzer {
	return &InstalledProgramsAnalyzer{now: time.Now}
}

func (a *InstalledProgramsAnalyzer) SectionName() string { return "InstalledPrograms" }

func (a *InstalledProgramsAnalyzer) OptionalInputFiles() []string {
	return []string{"StartupPrograms.json"}
}

func (a *InstalledProgramsAnalyzer) SupportsChunking() bool { return true }

func (a *InstalledProgramsAnalyzer) currentTime() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// isRecentInstall reports whether the program's InstallDate (YYYYMMDD)
// falls within the recent window. Unparseable dates are not recent.
func (a *InstalledProgramsAnalyzer) isRecentInstall(program any) bool {
	installDate := stringField(program, "InstallDate")
	if !installDateRe.MatchString(installDate) {
		return false
	}
	installed, err := time.Parse("20060102", installDate)
	if err != nil {
		return false
	}
	return a.currentTime().Sub(installed) <= recentInstallDays*24*time.Hour
}

func matchesCategory(programName, category string) bool {
	for _, keyword := range softwareCategories[category] {
		if strings.Contains(programName, keyword) {
			return true
		}
	}
	return false
}

func (a *InstalledProgramsAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	programs := asList(sectionData)
	if programs == nil {
		return map[string]any{"total_programs": 0}
	}

	categorized := map[string]int{}
	recent := 0
	for _, program := range programs {
		name := strings.ToLower(stringField(program, "Name"))
		for category := range softwareCategories {
			if matchesCategory(name, category) {
				categorized[category]++
			}
		}
		if a.isRecentInstall(program) {
			recent++
		}
	}

	return map[string]any{
		"total_programs":       len(programs),
		"recent_installations": recent,
		"security_software":    categorized["security"],
		"development_tools":    categorized["development"],
		"utility_software":     categorized["utilities"],
		"potential_bloatware":  categorized["bloatware"],
	}
}

// categorize partitions programs into first-match buckets following
// programCategoryOrder, with "other" as the catch-all.
func (a *InstalledProgramsAnalyzer) categorize(programs []any) map[string][]any {
	buckets := map[string][]any{}
	for _, program := range programs {
		name := strings.ToLower(stringField(program, "Name"))
		assigned := ""
		for _, category := range programCategoryOrder {
			if category == "recent" {
				if a.isRecentInstall(program) {
					assigned = category
					break
				}
				continue
			}
			if matchesCategory(name, category) {
				assigned = category
				break
			}
		}
		if assigned == "" {
			assigned = "other"
		}
		buckets[assigned] = append(buckets[assigned], program)
	}
	return buckets
}

// BuildPrompt is the single-call prompt used when the whole section fits
// one request, for example through the generic dispatch path.
func (a *InstalledProgramsAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxSectionJSON)
	metrics := a.ExtractKeyMetrics(sectionData)

	startupContext := ""
	if startup, ok := additional["StartupPrograms"]; ok {
		startupJSON := truncate(compactJSON(startup), 1000)
		startupContext = fmt.Sprintf("\nAlso consider the following startup programs that run automatically:\n```json\n%s\n```\n", startupJSON)
	}

	return fmt.Sprintf(`Analyze the installed programs data:

1. Identify outdated software that could pose security risks
2. Look for potentially unwanted programs or bloatware
3. Check for software conflicts or redundant applications
4. Identify suspicious or unusual software installations
5. Note any missing essential security or utility software
6. Check for recently installed software that might be relevant

Key metrics:
- Total installed programs: %d
- Recent installations (last 30 days): %d
- Security software detected: %d
- Development tools detected: %d
- Utility software detected: %d
- Potential bloatware detected: %d

The installed programs data for analysis:
`+"```json\n%s\n```\n%s",
		metrics["total_programs"],
		metrics["recent_installations"],
		metrics["security_software"],
		metrics["development_tools"],
		metrics["utility_software"],
		metrics["potential_bloatware"],
		sectionJSON,
		startupContext)
}

// AnalyzeChunked runs one LLM call per non-empty category bucket and a
// final consolidation call, combining everything into a single result.
func (a *InstalledProgramsAnalyzer) AnalyzeChunked(rt Runtime, sectionData any, additional map[string]any) report.Result {
	programs := asList(sectionData)
	if programs == nil {
		return report.ErrorResult("Invalid installed programs data format")
	}

	metrics := a.ExtractKeyMetrics(sectionData)
	buckets := a.categorize(programs)

	var calls []chunkCall
	for _, category := range append(append([]string{}, programCategoryOrder...), "other") {
		items := buckets[category]
		if len(items) == 0 {
			continue
		}
		calls = append(calls, chunkCall{
			Name:   category,
			Prompt: a.categoryPrompt(category, items, metrics),
		})
	}

	return runChunked(rt, a.SectionName(), calls, func(summaries []string) string {
		return a.summaryPrompt(summaries, metrics)
	})
}

func (a *InstalledProgramsAnalyzer) categoryPrompt(category string, items []any, metrics map[string]any) string {
	sample := items
	sampleNote := ""
	if len(sample) > chunkSampleCap {
		sample = sample[:chunkSampleCap]
		sampleNote = fmt.Sprintf("\n(Showing the first %d of %d programs in this category.)", chunkSampleCap, len(items))
	}

	core := fmt.Sprintf(`You are analyzing the '%s' category of installed programs (%d programs in this category).

%s

Overall system context:
- Total installed programs: %v
- Recent installations (last 30 days): %v

The programs in this category:%s
`+"```json\n%s\n```",
		category,
		len(items),
		programCategoryGuidance[category],
		metrics["total_programs"],
		metrics["recent_installations"],
		sampleNote,
		compactJSON(sample))

	return WrapPrompt(a.SectionName(), core)
}

func (a *InstalledProgramsAnalyzer) summaryPrompt(summaries []string, metrics map[string]any) string {
	return fmt.Sprintf(`You have analyzed the installed programs of a Windows system in categories. Here are the per-category summaries:

%s

Overall metrics:
- Total installed programs: %v
- Recent installations (last 30 days): %v

Synthesize these into one concise overall assessment of the installed software.

Provide your response as JSON with the following structure:
{
  "summary": "Overall assessment of the installed programs"
}

Important: Respond ONLY with valid JSON, no other text before or after.
`, strings.Join(summaries, "\n"), metrics["total_programs"], metrics["recent_installations"])
}
