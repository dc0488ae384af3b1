package analyzers

import "fmt"

// CPU usage thresholds (percent).
const (
	cpuIdlePercent     = 15
	cpuNormalPercent   = 50
	cpuHighPercent     = 80
	cpuCriticalPercent = 90
)

// Memory usage thresholds (percent).
const (
	memoryLowPercent      = 50
	memoryNormalPercent   = 70
	memoryHighPercent     = 85
	memoryCriticalPercent = 95

	// Systems should have at least this much free memory in GB.
	minFreeMemoryGB = 2
)

// PerformanceDataAnalyzer analyzes CPU and memory usage data.
type PerformanceDataAnalyzer struct{}

func NewPerformanceDataAnalyzer() *PerformanceDataAnalyzer { return &PerformanceDataAnalyzer{} }

func (a *PerformanceDataAnalyzer) SectionName() string { return "PerformanceData" }

func (a *PerformanceDataAnalyzer) OptionalInputFiles() []string {
	return []string{"RunningServices.json", "StartupPrograms.json", "DiskSpace.json"}
}

func (a *PerformanceDataAnalyzer) SupportsChunking() bool { return false }

func cpuStatus(usage float64) string {
	switch {
	case usage <= cpuIdlePercent:
		return "Idle"
	case usage <= cpuNormalPercent:
		return "Normal"
	case usage <= cpuHighPercent:
		return "High"
	case usage <= cpuCriticalPercent:
		return "Very High"
	default:
		return "Critical"
	}
}

func memoryStatus(percentUsed float64) string {
	switch {
	case percentUsed <= memoryLowPercent:
		return "Low"
	case percentUsed <= memoryNormalPercent:
		return "Normal"
	case percentUsed <= memoryHighPercent:
		return "High"
	case percentUsed <= memoryCriticalPercent:
		return "Very High"
	default:
		return "Critical"
	}
}

func (a *PerformanceDataAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	data := asMap(sectionData)
	if data == nil {
		return map[string]any{"error": "Invalid performance data format"}
	}

	cpuUsage, cpuOK := data["ProcessorUsage"].(float64)
	cpuState := "Unknown"
	if cpuOK {
		cpuState = cpuStatus(cpuUsage)
	}

	memory := asMap(data["Memory"])
	totalGB, _ := memory["TotalGB"].(float64)
	usedGB, _ := memory["UsedGB"].(float64)
	freeGB, freeOK := memory["FreeGB"].(float64)
	percentUsed, percentOK := memory["PercentUsed"].(float64)

	memState := "Unknown"
	if percentOK {
		memState = memoryStatus(percentUsed)
	}

	lowMemoryWarning := freeOK && freeGB < minFreeMemoryGB

	// High memory usage combined with high CPU indicates pressure.
	memoryPressure := "Unknown"
	if percentOK && cpuOK {
		switch {
		case percentUsed > memoryHighPercent && cpuUsage > cpuHighPercent:
			memoryPressure = "High"
		case percentUsed > memoryNormalPercent || cpuUsage > cpuNormalPercent:
			memoryPressure = "Moderate"
		default:
			memoryPressure = "Low"
		}
	}

	cpu := map[string]any{"status": cpuState}
	if cpuOK {
		cpu["usage_percent"] = cpuUsage
	}
	mem := map[string]any{
		"total_gb":           totalGB,
		"used_gb":            usedGB,
		"free_gb":            freeGB,
		"status":             memState,
		"low_memory_warning": lowMemoryWarning,
	}
	if percentOK {
		mem["percent_used"] = percentUsed
	}

	return map[string]any{
		"cpu":    cpu,
		"memory": mem,
		"system_pressure": map[string]any{
			"memory_pressure": memoryPressure,
		},
	}
}

func (a *PerformanceDataAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxSectionJSON)
	metrics := a.ExtractKeyMetrics(sectionData)

	cpu := asMap(metrics["cpu"])
	mem := asMap(metrics["memory"])
	pressure := asMap(metrics["system_pressure"])

	cpuInfo := "CPU Usage: Unknown"
	if usage, ok := cpu["usage_percent"].(float64); ok {
		cpuInfo = fmt.Sprintf("CPU Usage: %v%% (%s)", usage, cpu["status"])
	}

	memoryInfo := "Memory Usage: Unknown"
	if used, ok := mem["percent_used"].(float64); ok {
		memoryInfo = fmt.Sprintf("Memory Usage: %v%% (%s)\nTotal Memory: %v GB\nUsed Memory: %v GB\nFree Memory: %v GB",
			used, mem["status"], mem["total_gb"], mem["used_gb"], mem["free_gb"])
	}

	warnings := ""
	if low, _ := mem["low_memory_warning"].(bool); low {
		warnings += fmt.Sprintf("\nWARNING: System has less than %d GB of free memory, which may affect performance.", minFreeMemoryGB)
	}
	if cpu["status"] == "Critical" {
		warnings += "\nWARNING: CPU usage is critically high, which may indicate a problem or resource contention."
	}
	if mem["status"] == "Critical" {
		warnings += "\nWARNING: Memory usage is critically high, which may lead to swapping and reduced performance."
	}

	diskContext := ""
	if drives := asList(additional["DiskSpace"]); len(drives) > 0 {
		for _, drive := range drives {
			if stringField(drive, "Name") != "C" {
				continue
			}
			free, _ := numberField(drive, "FreeGB")
			percentFree, hasPercent := numberField(drive, "PercentFree")
			diskContext = fmt.Sprintf("\nSystem Drive (C:) Free Space: %v GB (%v%% free)", free, percentFree)
			if hasPercent && percentFree < diskWarningPercent {
				diskContext += "\nNOTE: Low free space on system drive may affect performance if virtual memory is needed."
			}
			break
		}
	}

	servicesContext := ""
	if services := asList(additional["RunningServices"]); services != nil {
		servicesContext = fmt.Sprintf("\nRunning Services: %d services active", len(services))
	}

	return fmt.Sprintf(`Analyze the system performance data to identify bottlenecks, risks, and optimization opportunities:

1. Performance assessment
   - Evaluate CPU utilization patterns
   - Assess memory usage and potential memory pressure
   - Identify performance bottlenecks
   - Determine if the system has adequate resources for its workload

2. Resource utilization
   - Analyze if CPU resources are being efficiently used
   - Evaluate if memory allocation is appropriate
   - Identify potential resource contention
   - Assess if virtual memory/page file might be in use

3. Optimization recommendations
   - Suggest ways to improve system performance
   - Recommend resource allocation adjustments if needed
   - Identify potential hardware upgrade needs
   - Suggest software configuration changes to optimize performance

4. Risk evaluation
   - Identify potential stability risks due to resource exhaustion
   - Assess long-term sustainability of current resource usage
   - Evaluate impact of current performance on user experience
   - Identify processes or services that may need resource constraints

Key metrics:
- %s
- %s
- System Pressure: %s
%s

Additional context:%s%s

The performance data for analysis:
`+"```json\n%s\n```",
		cpuInfo,
		memoryInfo,
		pressure["memory_pressure"],
		warnings,
		diskContext,
		servicesContext,
		sectionJSON)
}
