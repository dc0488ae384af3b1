package analyzers

import (
	"fmt"
	"strings"
)

// Service name tables for classifying running Windows services.
var (
	// Core Windows services that should typically be running.
	essentialServices = []string{
		"wuauserv",
		"WinDefend",
		"wscsvc",
		"LanmanServer",
		"LanmanWorkstation",
		"Dnscache",
		"DcomLaunch",
		"RpcSs",
		"EventLog",
		"PlugPlay",
		"gpsvc",
		"CryptSvc",
		"iphlpsvc",
		"W32Time",
		"SessionEnv",
		"UserManager",
		"Power",
		"mpssvc",
		"BFE",
		"nvvsvc",
		"spoolsv",
		"ShellHWDetection",
	}

	// Services most users can disable without losing anything.
	potentiallyUnnecessaryServices = []string{
		"AdobeARMservice",
		"AdobeFlashPlayerUpdateSvc",
		"RemoteRegistry",
		"Fax",
		"TapiSrv",
		"SCardSvr",
		"BTAGService",
		"bthserv",
		"TabletInputService",
		"WbioSrvc",
		"wcncsvc",
		"WMPNetworkSvc",
		"WSearch",
		"XblAuthManager",
		"XblGameSave",
		"XboxNetApiSvc",
		"lfsvc",
		"DiagTrack",
		"WalletService",
		"RetailDemo",
		"SharedAccess",
	}

	// Services that widen the attack surface when left running.
	securitySensitiveServices = []string{
		"RemoteRegistry",
		"RemoteAccess",
		"TermService",
		"UmRdpService",
		"SharedAccess",
		"upnphost",
		"SessionEnv",
		"NetTcpPortSharing",
		"lmhosts",
		"TlntSvr",
		"FTPSVC",
		"SMTPSVC",
		"SNMP",
		"SNMPTRAP",
	}
)

// RunningServicesAnalyzer analyzes the running services section.
type RunningServicesAnalyzer struct{}

func NewRunningServicesAnalyzer() *RunningServicesAnalyzer { return &RunningServicesAnalyzer{} }

func (a *RunningServicesAnalyzer) SectionName() string { return "RunningServices" }

func (a *RunningServicesAnalyzer) OptionalInputFiles() []string {
	return []string{"WindowsFeatures.json", "PerformanceData.json"}
}

func (a *RunningServicesAnalyzer) SupportsChunking() bool { return false }

func (a *RunningServicesAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	services := asList(sectionData)
	if services == nil {
		return map[string]any{"total_running_services": 0}
	}

	startTypes := map[string]int{}
	names := make(map[string]bool, len(services))
	for _, svc := range services {
		startType := stringField(svc, "StartType")
		if startType == "" {
			startType = "Unknown"
		}
		startTypes[startType]++
		if name := stringField(svc, "Name"); name != "" {
			names[name] = true
		}
	}

	essentialRunning := 0
	var essentialMissing []string
	for _, essential := range essentialServices {
		if names[essential] {
			essentialRunning++
		} else {
			essentialMissing = append(essentialMissing, essential)
		}
	}

	var unnecessary []string
	for _, name := range potentiallyUnnecessaryServices {
		if names[name] {
			unnecessary = append(unnecessary, name)
		}
	}

	var securitySensitive []string
	for _, name := range securitySensitiveServices {
		if names[name] {
			securitySensitive = append(securitySensitive, name)
		}
	}

	return map[string]any{
		"total_running_services": len(services),
		"start_types":            startTypes,
		"essential_services": map[string]any{
			"running":         essentialRunning,
			"total_essential": len(essentialServices),
			"missing":         essentialMissing,
		},
		"unnecessary_services": map[string]any{
			"running":  len(unnecessary),
			"services": unnecessary,
		},
		"security_sensitive": map[string]any{
			"running":  len(securitySensitive),
			"services": securitySensitive,
		},
	}
}

func (a *RunningServicesAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxSectionJSON)
	metrics := a.ExtractKeyMetrics(sectionData)

	var startTypesStr strings.Builder
	if startTypes, ok := metrics["start_types"].(map[string]int); ok {
		for _, st := range sortedKeys(startTypes) {
			fmt.Fprintf(&startTypesStr, "  - %s: %d\n", st, startTypes[st])
		}
	}

	essential := asMap(metrics["essential_services"])
	missing, _ := essential["missing"].([]string)
	missingStr := ""
	if len(missing) > 0 {
		var list strings.Builder
		for _, svc := range missing {
			fmt.Fprintf(&list, "  - %s\n", svc)
		}
		missingStr = fmt.Sprintf("\nPotentially concerning missing essential services:\n%s", strings.TrimRight(list.String(), "\n"))
	}

	unnecessaryStr := ""
	if unnecessary := asMap(metrics["unnecessary_services"]); unnecessary != nil {
		if services, _ := unnecessary["services"].([]string); len(services) > 0 {
			shown := services
			andOthers := ""
			if len(shown) > 10 {
				shown = shown[:10]
				andOthers = "\n  - ... and others"
			}
			var list strings.Builder
			for _, svc := range shown {
				fmt.Fprintf(&list, "  - %s\n", svc)
			}
			unnecessaryStr = fmt.Sprintf("\nPotentially unnecessary services running:\n%s%s", strings.TrimRight(list.String(), "\n"), andOthers)
		}
	}

	securityStr := ""
	if sensitive := asMap(metrics["security_sensitive"]); sensitive != nil {
		if services, _ := sensitive["services"].([]string); len(services) > 0 {
			var list strings.Builder
			for _, svc := range services {
				fmt.Fprintf(&list, "  - %s\n", svc)
			}
			securityStr = fmt.Sprintf("\nSecurity-sensitive services running:\n%s", strings.TrimRight(list.String(), "\n"))
		}
	}

	performanceContext := ""
	if perf := asMap(additional["PerformanceData"]); perf != nil {
		cpuUsage, cpuOK := perf["ProcessorUsage"].(float64)
		memUsage, memOK := 0.0, false
		if mem := asMap(perf["Memory"]); mem != nil {
			memUsage, memOK = mem["PercentUsed"].(float64)
		}
		if cpuOK || memOK {
			performanceContext = "\nCurrent system performance:"
			if cpuOK {
				performanceContext += fmt.Sprintf("\n- CPU Usage: %v%%", cpuUsage)
			}
			if memOK {
				performanceContext += fmt.Sprintf("\n- Memory Usage: %v%%", memUsage)
			}
		}
	}

	return fmt.Sprintf(`Analyze the running Windows services to identify potential issues, security risks, and optimization opportunities:

1. Service status assessment
   - Identify services that should be running but aren't
   - Assess if the right set of services is running for this system's purpose
   - Check for unnecessary or redundant services that could be disabled

2. Security implications
   - Look for services that might introduce security vulnerabilities
   - Identify services that should be running in different security contexts
   - Check for services that should be disabled unless specifically needed
   - Assess services with network exposure

3. Performance impact
   - Identify resource-intensive services that might impact system performance
   - Look for services that could be reconfigured to start manually rather than automatically
   - Check for services that might conflict with each other

4. Configuration recommendations
   - Suggest optimizations for service configurations
   - Identify services that could be disabled safely
   - Recommend alternative start types for services

Key metrics:
- Total running services: %d
- Services by start type:
%s- Essential services running: %d out of %d%s%s%s%s

The running services data for analysis:
`+"```json\n%s\n```",
		metrics["total_running_services"],
		startTypesStr.String(),
		essential["running"],
		essential["total_essential"],
		missingStr,
		unnecessaryStr,
		securityStr,
		performanceContext,
		sectionJSON)
}
