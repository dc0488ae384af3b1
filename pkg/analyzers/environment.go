package analyzers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Variable tables for classifying environment variables.
var (
	// Variables Windows depends on being set.
	criticalVariables = map[string]string{
		"SystemRoot":         "Windows system directory",
		"windir":             "Windows directory",
		"TEMP":               "Temporary files location",
		"TMP":                "Temporary files location",
		"PATHEXT":            "Executable file extensions",
		"COMSPEC":            "Command processor path",
		"ProgramFiles":       "Program Files directory",
		"ProgramFiles(x86)":  "Program Files (x86) directory",
		"ProgramData":        "Program data directory",
		"ALLUSERSPROFILE":    "All users profile directory",
		"APPDATA":            "Application data directory",
		"LOCALAPPDATA":       "Local application data directory",
		"USERPROFILE":        "User profile directory",
		"Path":               "Executable search path",
		"SystemDrive":        "System drive letter",
		"COMPUTERNAME":       "Computer name",
		"USERNAME":           "User name",
		"HOMEDRIVE":          "User home drive",
		"HOMEPATH":           "User home path",
	}

	// Variables usually left over from older software.
	legacyVariables = map[string]string{
		"OS2LIBPATH":             "OS/2 library path (legacy)",
		"INCLUDE":                "C++ include file path (legacy if not developing)",
		"LIB":                    "C++ library path (legacy if not developing)",
		"OS":                     "Operating system name (often redundant)",
		"PROCESSOR_ARCHITECTURE": "Processor architecture (rarely used)",
		"NUMBER_OF_PROCESSORS":   "Processor count (rarely used directly)",
		"PROCESSOR_IDENTIFIER":   "Processor identifier (rarely used)",
		"PROCESSOR_LEVEL":        "Processor level (rarely used)",
		"PROCESSOR_REVISION":     "Processor revision (rarely used)",
	}

	developmentVariables = []string{
		"JAVA_HOME", "JRE_HOME", "MAVEN_HOME", "ANT_HOME", "GRADLE_HOME",
		"PYTHON", "PYTHONHOME", "PYTHONPATH", "NODE_PATH", "GOROOT", "GOPATH",
		"ANDROID_HOME", "ANDROID_SDK_ROOT", "DOTNET_ROOT", "VS", "VSINSTALLDIR",
		"RUSTUP_HOME", "CARGO_HOME", "RUBY_HOME", "GEM_HOME", "PHP_HOME",
	}

	// %VAR%, $VAR and ${VAR} style expansions.
	expansionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`%([^%]+)%`),
		regexp.MustCompile(`\$([A-Za-z0-9_]+)`),
		regexp.MustCompile(`\$\{([^}]+)\}`),
	}
)

// EnvironmentAnalyzer analyzes the environment variables section.
type EnvironmentAnalyzer struct{}

func NewEnvironmentAnalyzer() *EnvironmentAnalyzer { return &EnvironmentAnalyzer{} }

func (a *EnvironmentAnalyzer) SectionName() string { return "Environment" }

func (a *EnvironmentAnalyzer) OptionalInputFiles() []string {
	return []string{"Path.json"}
}

func (a *EnvironmentAnalyzer) SupportsChunking() bool { return false }

// envConcern describes one security concern found in the variables.
type envConcern struct {
	Variable string
	Issue    string
	Details  string
}

// envReference describes a self- or circular reference between variables.
type envReference struct {
	Name          string
	Value         string
	ReferencedVar string
	Issue         string
}

func (a *EnvironmentAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	data := asMap(sectionData)
	if data == nil {
		return map[string]any{"error": "Invalid environment data format"}
	}

	systemVars := asList(data["SystemVariables"])
	userVars := asList(data["UserVariables"])
	processVars := asList(data["ProcessVariables"])

	allVars := map[string]string{}
	var names []string
	for _, group := range [][]any{systemVars, userVars, processVars} {
		for _, v := range group {
			name := stringField(v, "Name")
			if _, seen := allVars[name]; !seen {
				names = append(names, name)
			}
			allVars[name] = stringField(v, "Value")
		}
	}

	criticalFound := 0
	var criticalMissing []string
	for varName := range criticalVariables {
		if _, ok := allVars[varName]; ok {
			criticalFound++
		} else {
			criticalMissing = append(criticalMissing, varName)
		}
	}
	sort.Strings(criticalMissing)

	var securityConcerns []envConcern
	if pathValue, ok := allVars["Path"]; ok {
		for _, entry := range strings.Split(pathValue, ";") {
			if strings.TrimSpace(entry) == "" {
				securityConcerns = append(securityConcerns, envConcern{
					Variable: "Path",
					Issue:    "Empty entry in Path",
					Details:  "Empty entries in Path can lead to current directory execution",
				})
				break
			}
		}
	}

	var devVarsPresent []string
	for _, v := range developmentVariables {
		if _, ok := allVars[v]; ok {
			devVarsPresent = append(devVarsPresent, v)
		}
	}

	var recursiveVars []envReference
	for _, name := range names {
		value := allVars[name]
		if referencesVariable(value, name) {
			recursiveVars = append(recursiveVars, envReference{
				Name:  name,
				Value: value,
				Issue: "Self-reference",
			})
			continue
		}
		for _, pattern := range expansionPatterns {
			found := false
			for _, match := range pattern.FindAllStringSubmatch(value, -1) {
				referenced := match[1]
				other, ok := allVars[referenced]
				if ok && referencesVariable(other, name) {
					recursiveVars = append(recursiveVars, envReference{
						Name:          name,
						Value:         value,
						ReferencedVar: referenced,
						Issue:         "Potential circular reference",
					})
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}

	var legacyPresent []string
	for v := range legacyVariables {
		if _, ok := allVars[v]; ok {
			legacyPresent = append(legacyPresent, v)
		}
	}
	sort.Strings(legacyPresent)

	return map[string]any{
		"counts": map[string]any{
			"system":  len(systemVars),
			"user":    len(userVars),
			"process": len(processVars),
			"total":   len(systemVars) + len(userVars),
		},
		"critical_variables": map[string]any{
			"found":   criticalFound,
			"missing": criticalMissing,
		},
		"security": map[string]any{
			"concerns": securityConcerns,
		},
		"development": map[string]any{
			"variables": devVarsPresent,
		},
		"issues": map[string]any{
			"recursive": recursiveVars,
			"legacy":    legacyPresent,
		},
	}
}

// referencesVariable reports whether value expands name in any of the
// supported expansion syntaxes.
func referencesVariable(value, name string) bool {
	return strings.Contains(value, "%"+name+"%") ||
		strings.Contains(value, "$"+name) ||
		strings.Contains(value, "${"+name+"}")
}

func (a *EnvironmentAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxSectionJSON)
	metrics := a.ExtractKeyMetrics(sectionData)

	counts := asMap(metrics["counts"])
	varCounts := fmt.Sprintf("Environment Variables: %v total variables\n  - System variables: %v\n  - User variables: %v",
		counts["total"], counts["system"], counts["user"])

	critical := asMap(metrics["critical_variables"])
	criticalInfo := fmt.Sprintf("Critical Variables: %v of %d found", critical["found"], len(criticalVariables))

	missingCritical := ""
	if missing, _ := critical["missing"].([]string); len(missing) > 0 {
		missingCritical = fmt.Sprintf("\nMissing critical variables: %s", strings.Join(missing, ", "))
	}

	securityStr := ""
	if concerns, _ := asMap(metrics["security"])["concerns"].([]envConcern); len(concerns) > 0 {
		securityStr = "\nSecurity concerns detected:"
		for _, c := range concerns {
			securityStr += fmt.Sprintf("\n  - %s: %s - %s", c.Variable, c.Issue, c.Details)
		}
	}

	devStr := ""
	if devVars, _ := asMap(metrics["development"])["variables"].([]string); len(devVars) > 0 {
		devStr = fmt.Sprintf("\nDevelopment variables detected: %s", strings.Join(devVars, ", "))
	}

	issues := asMap(metrics["issues"])
	recursiveStr := ""
	if refs, _ := issues["recursive"].([]envReference); len(refs) > 0 {
		recursiveStr = "\nRecursive or circular references detected:"
		for _, ref := range refs {
			if ref.ReferencedVar != "" {
				recursiveStr += fmt.Sprintf("\n  - %s references %s which may form a circular reference", ref.Name, ref.ReferencedVar)
			} else {
				recursiveStr += fmt.Sprintf("\n  - %s references itself", ref.Name)
			}
		}
	}

	legacyStr := ""
	if legacy, _ := issues["legacy"].([]string); len(legacy) > 0 {
		legacyStr = fmt.Sprintf("\nLegacy variables detected: %s", strings.Join(legacy, ", "))
	}

	pathContext := ""
	if pathData := asList(additional["Path"]); pathData != nil {
		invalid := 0
		for _, p := range pathData {
			if exists, ok := boolField(p, "Exists"); ok && !exists {
				invalid++
			}
		}
		pathContext = fmt.Sprintf("\nPATH variable contains %d entries (%d invalid/non-existent)", len(pathData), invalid)
	}

	return fmt.Sprintf(`Analyze the environment variables to identify configuration issues, security risks, and optimization opportunities:

1. Variable configuration assessment
   - Evaluate if critical environment variables are properly set
   - Check for missing or misconfigured important variables
   - Assess how variables interact with each other
   - Identify redundant or unnecessary variables

2. Security implications
   - Look for security risks in environment variable configuration
   - Check for insecure paths or configurations
   - Identify variables that might expose sensitive information
   - Assess if environment variables follow security best practices

3. Performance and compatibility
   - Evaluate if environment variables might impact system performance
   - Check for legacy or obsolete variables that are no longer needed
   - Identify variables that might cause compatibility issues
   - Assess if development environment configurations might affect stability

4. Configuration recommendations
   - Suggest ways to optimize environment variable configurations
   - Recommend security improvements for environment variables
   - Identify variables that should be added, removed, or modified
   - Provide best practices for environment variable management

Key metrics:
- %s
- %s%s%s%s%s%s%s

The environment variables data for analysis:
`+"```json\n%s\n```",
		varCounts,
		criticalInfo,
		missingCritical,
		securityStr,
		devStr,
		recursiveStr,
		legacyStr,
		pathContext,
		sectionJSON)
}
