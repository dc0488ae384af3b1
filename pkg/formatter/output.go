package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/sysstate/snapai/pkg/report"
)

// DisplayReport formats and displays a complete analysis report.
func DisplayReport(rep *report.Report, format string) error {
	switch format {
	case "json":
		return displayJSON(rep)
	case "yaml":
		return displayYAML(rep)
	case "human":
		fallthrough
	default:
		displayHuman(rep)
	}
	return nil
}

func displayJSON(rep *report.Report) error {
	output, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayYAML(rep *report.Report) error {
	output, err := yaml.Marshal(rep)
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayHuman(rep *report.Report) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Println()

	summary := rep.Summary
	if summary.IsError() {
		red.Println("⚠️  SUMMARY GENERATION FAILED:")
		fmt.Printf("   %s\n\n", summary.Error)
	} else {
		healthColor := getHealthColor(summary.OverallHealth)
		healthColor.Printf("📊 OVERALL HEALTH: %s\n\n", strings.ToUpper(summary.OverallHealth))

		fmt.Printf("   Critical issues: %d\n", summary.CriticalIssuesCount)
		fmt.Printf("   High priority issues: %d\n\n", summary.HighPriorityIssuesCount)

		if summary.SystemAssessment != "" {
			white.Println("📄 SYSTEM ASSESSMENT:")
			fmt.Println(wrapText(summary.SystemAssessment, 80, "   "))
			fmt.Println()
		}

		if len(summary.TopRecommendations) > 0 {
			cyan.Println("💡 TOP RECOMMENDATIONS:")
			for _, rec := range summary.TopRecommendations {
				fmt.Printf("   %d. %s\n", rec.Priority, rec.Description)
				if rec.Rationale != "" {
					fmt.Printf("      Why: %s\n", rec.Rationale)
				}
				fmt.Println()
			}
		}

		if summary.NextSteps != "" {
			white.Println("🚀 NEXT STEPS:")
			fmt.Println(wrapText(summary.NextSteps, 80, "   "))
			fmt.Println()
		}
	}

	displaySectionIssues(rep, yellow)

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for the full machine-readable report"))
}

// displaySectionIssues prints the critical and high issues of every
// section, plus a line per section that failed to analyze.
func displaySectionIssues(rep *report.Report, header *color.Color) {
	var lines []string
	for _, name := range sortedSectionNames(rep.Sections) {
		result := rep.Sections[name]
		if result.IsError() {
			lines = append(lines, fmt.Sprintf("   %s %s: analysis failed (%s)", "⚪", name, result.Error))
			continue
		}
		for _, issue := range result.Issues {
			if issue.Severity != "critical" && issue.Severity != "high" {
				continue
			}
			icon := getSeverityIcon(issue.Severity)
			label := name
			if issue.Category != "" {
				label = fmt.Sprintf("%s/%s", name, issue.Category)
			}
			lines = append(lines, fmt.Sprintf("   %s [%s] %s", icon, label, issue.Title))
			if issue.Recommendation != "" {
				lines = append(lines, fmt.Sprintf("      Fix: %s", color.YellowString(issue.Recommendation)))
			}
		}
	}

	if len(lines) == 0 {
		return
	}
	header.Println("⚠️  IMPORTANT SECTION FINDINGS:")
	for _, line := range lines {
		fmt.Println(line)
	}
	fmt.Println()
}

func sortedSectionNames(sections map[string]report.Result) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getHealthColor(health string) *color.Color {
	switch strings.ToLower(health) {
	case "good":
		return color.New(color.FgGreen, color.Bold)
	case "fair":
		return color.New(color.FgYellow, color.Bold)
	case "poor":
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite, color.Bold)
	}
}

func getSeverityIcon(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "🔴"
	case "high":
		return "🟠"
	case "medium":
		return "🟡"
	case "low":
		return "🟢"
	default:
		return "⚪"
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
