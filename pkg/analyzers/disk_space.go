package analyzers

import (
	"fmt"
	"strings"
)

// Percent-free thresholds for disk space warnings.
const (
	diskCriticalPercent  = 5
	diskWarningPercent   = 10
	diskAttentionPercent = 15

	// System drives need headroom for paging and temp files.
	systemMinFreeGB = 20
)

// DiskSpaceAnalyzer analyzes per-drive disk space data.
type DiskSpaceAnalyzer struct{}

func NewDiskSpaceAnalyzer() *DiskSpaceAnalyzer { return &DiskSpaceAnalyzer{} }

func (a *DiskSpaceAnalyzer) SectionName() string { return "DiskSpace" }

func (a *DiskSpaceAnalyzer) OptionalInputFiles() []string {
	return []string{"PerformanceData.json", "WindowsFeatures.json"}
}

func (a *DiskSpaceAnalyzer) SupportsChunking() bool { return false }

// driveMetric is the derived status of a single drive.
type driveMetric struct {
	Letter      string
	FreeGB      float64
	TotalGB     float64
	PercentFree float64
	Status      string
	IsSystem    bool
}

func (a *DiskSpaceAnalyzer) ExtractKeyMetrics(sectionData any) map[string]any {
	drives := asList(sectionData)
	if drives == nil {
		return map[string]any{"total_drives": 0}
	}

	var (
		driveMetrics            []driveMetric
		systemDrive             *driveMetric
		totalGB, usedGB, freeGB float64
		drivesLowSpace          []string
		drivesCritical          []string
	)

	for _, drive := range drives {
		letter := stringField(drive, "Name")
		if letter == "" {
			letter = "Unknown"
		}
		percentFree, _ := numberField(drive, "PercentFree")
		free, _ := numberField(drive, "FreeGB")
		total, _ := numberField(drive, "TotalGB")
		used, _ := numberField(drive, "UsedGB")

		totalGB += total
		usedGB += used
		freeGB += free

		status := "OK"
		switch {
		case percentFree <= diskCriticalPercent || (letter == "C" && free < systemMinFreeGB):
			status = "CRITICAL"
			drivesCritical = append(drivesCritical, letter)
		case percentFree <= diskWarningPercent:
			status = "WARNING"
			drivesLowSpace = append(drivesLowSpace, letter)
		case percentFree <= diskAttentionPercent:
			status = "ATTENTION"
			drivesLowSpace = append(drivesLowSpace, letter)
		}

		metric := driveMetric{
			Letter:      letter,
			FreeGB:      free,
			TotalGB:     total,
			PercentFree: percentFree,
			Status:      status,
			IsSystem:    letter == "C",
		}
		if metric.IsSystem {
			systemDrive = &metric
		}
		driveMetrics = append(driveMetrics, metric)
	}

	overallFree := 0.0
	if totalGB > 0 {
		overallFree = freeGB / totalGB * 100
	}

	return map[string]any{
		"total_drives":               len(drives),
		"drive_metrics":              driveMetrics,
		"system_drive":               systemDrive,
		"total_space_gb":             totalGB,
		"total_used_gb":              usedGB,
		"total_free_gb":              freeGB,
		"drives_low_space":           drivesLowSpace,
		"drives_critical":            drivesCritical,
		"overall_space_free_percent": overallFree,
	}
}

func (a *DiskSpaceAnalyzer) BuildPrompt(sectionData any, additional map[string]any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxSectionJSON)
	metrics := a.ExtractKeyMetrics(sectionData)

	var drivesInfo strings.Builder
	driveMetrics, _ := metrics["drive_metrics"].([]driveMetric)
	for _, d := range driveMetrics {
		statusLabel := ""
		if d.Status != "OK" {
			statusLabel = fmt.Sprintf(" [%s]", d.Status)
		}
		systemLabel := ""
		if d.IsSystem {
			systemLabel = " (System Drive)"
		}
		fmt.Fprintf(&drivesInfo, "  - Drive %s%s: %.2f GB free out of %.2f GB (%.1f%% free)%s\n",
			d.Letter, systemLabel, d.FreeGB, d.TotalGB, d.PercentFree, statusLabel)
	}

	var warnings strings.Builder
	critical, _ := metrics["drives_critical"].([]string)
	if len(critical) > 0 {
		fmt.Fprintf(&warnings, "\nCRITICAL: The following drives have critically low free space: %s",
			strings.Join(critical, ", "))
	}
	lowSpace, _ := metrics["drives_low_space"].([]string)
	if len(lowSpace) > 0 {
		fmt.Fprintf(&warnings, "\nWARNING: The following drives have low free space: %s",
			strings.Join(lowSpace, ", "))
	}
	if sys, _ := metrics["system_drive"].(*driveMetric); sys != nil && sys.Status != "OK" {
		fmt.Fprintf(&warnings, "\nIMPORTANT: System drive %s has %.2f GB free (%.1f%%). System performance may be degraded.",
			sys.Letter, sys.FreeGB, sys.PercentFree)
	}

	return fmt.Sprintf(`Analyze the disk space data to identify potential issues, risks, and optimization opportunities:

1. Space utilization assessment
   - Identify drives with critically low free space
   - Assess if the system drive has adequate free space
   - Evaluate overall storage allocation across drives
   - Check for imbalanced space utilization among drives

2. Risk evaluation
   - Identify potential risks due to low free space
   - Assess if low space could impact system stability or performance
   - Calculate how quickly drives might fill up based on current usage patterns
   - Evaluate if there are backup/recovery partition space concerns

3. Optimization recommendations
   - Suggest drives that may need cleanup or expansion
   - Recommend potential file relocation strategies
   - Identify opportunities for storage reallocation
   - Suggest disk cleanup approaches based on drive usage patterns

4. Performance implications
   - Assess if any drives are nearing capacity thresholds that could impact performance (especially SSDs)
   - Evaluate if the system drive has sufficient space for virtual memory and temporary files
   - Identify if drive fragmentation might be an issue based on free space patterns

Key metrics:
- Total drives: %d
- Total storage: %.2f GB
- Total used: %.2f GB
- Total free: %.2f GB
- Overall free space: %.1f%%

Drive details:
%s%s

The disk space data for analysis:
`+"```json\n%s\n```",
		metrics["total_drives"],
		metrics["total_space_gb"],
		metrics["total_used_gb"],
		metrics["total_free_gb"],
		metrics["overall_space_free_percent"],
		drivesInfo.String(),
		warnings.String(),
		sectionJSON)
}
