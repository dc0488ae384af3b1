package analyzers

import (
	"fmt"
	"strings"
)

// The Network section carries several nested lists, so its limits are
// tighter than the standard section cap.
const (
	maxNetworkJSON   = 8000
	maxComponentJSON = 1000
)

// Per-component instruction blocks for chunked network analysis.
var networkComponentInstructions = map[string]string{
	"adapters": `Analyze network adapters, focusing on:
1. Adapter status (Up/Down)
2. Adapter types and configurations
3. Potential issues or misconfigurations`,
	"ip_config": `Analyze IP configuration, focusing on:
1. IP address allocation (DHCP vs static)
2. Subnet configuration
3. Potential IP addressing issues`,
	"dns": `Analyze DNS settings, focusing on:
1. DNS server configuration
2. Security and reliability of DNS settings
3. Potential DNS-related issues`,
	"connections": `Analyze network connections, focusing on:
1. Active connection patterns
2. Security implications of connections
3. Suspicious or potentially problematic connections`,
}

// networkPrompt builds the single-call prompt covering the whole
// network section.
func networkPrompt(sectionData any) string {
	sectionJSON := truncate(compactJSON(sectionData), maxNetworkJSON)
	metrics := networkMetrics(sectionData)

	adapters := asMap(metrics["adapters"])
	adapterInfo := fmt.Sprintf("Network Adapters: %v total (%v up, %v down)",
		adapters["count"], adapters["up"], adapters["down"])

	adapterTypesStr := ""
	if types, ok := adapters["types"].(map[string]int); ok {
		for _, mediaType := range sortedKeys(types) {
			humanName := mediaType
			if name, ok := mediaTypes[mediaType]; ok {
				humanName = name
			}
			adapterTypesStr += fmt.Sprintf("\n  - %s: %d", humanName, types[mediaType])
		}
	}

	ipConfig := asMap(metrics["ip_configuration"])
	ipInfo := fmt.Sprintf("IP Configuration:\n  - DHCP (estimated): %v\n  - Static (estimated): %v\n  - Public IP addresses: %v",
		ipConfig["estimated_dhcp"], ipConfig["estimated_static"], ipConfig["public_ips"])

	dnsDescription := "No - Using ISP or custom DNS"
	if public, _ := asMap(metrics["dns"])["using_public_dns"].(bool); public {
		dnsDescription = "Yes"
	}
	dnsInfo := fmt.Sprintf("DNS Configuration:\n  - Using public DNS: %s", dnsDescription)

	connections := asMap(metrics["connections"])
	connectionsInfo := fmt.Sprintf("Active Connections: %v", connections["count"])

	sensitiveStr := ""
	if active, _ := connections["sensitive_ports"].([]sensitivePort); len(active) > 0 {
		sensitiveStr = "\nSensitive Ports Active:"
		for _, p := range active {
			sensitiveStr += fmt.Sprintf("\n  - %s (%s): %s", p.Port, p.Service, p.Remote)
		}
	}

	return fmt.Sprintf(`Analyze the network configuration data to identify potential issues, security risks, and optimization opportunities:

1. Network connectivity assessment
   - Evaluate adapter status and configuration
   - Assess IPv4 and IPv6 configuration correctness
   - Check for misconfigurations in networking settings
   - Identify potential connectivity issues

2. Security evaluation
   - Identify potential security risks in network configuration
   - Assess DNS server security implications
   - Evaluate network exposure based on adapter configuration
   - Check for concerning active connections or listening ports
   - Identify any unusual or potentially malicious network activity

3. Performance optimization
   - Evaluate network adapter performance settings
   - Assess if network configuration is optimal for the system's purpose
   - Identify potential bottlenecks in network configuration
   - Suggest improvements for network performance

4. Configuration recommendations
   - Recommend best practices for network security
   - Suggest improvements to network reliability
   - Identify areas where network configuration could be optimized
   - Provide guidance on DNS configuration

Key metrics:
- %s%s
- %s
- %s
- %s%s

The network data for analysis:
`+"```json\n%s\n```",
		adapterInfo,
		adapterTypesStr,
		ipInfo,
		dnsInfo,
		connectionsInfo,
		sensitiveStr,
		sectionJSON)
}

// networkComponentPrompt builds the prompt for one structural component
// of the network section. Long lists are reduced to a representative
// sample before serialization.
func networkComponentPrompt(componentName string, componentData any) string {
	if list := asList(componentData); len(list) > 5 {
		componentData = sampleList(list)
	}

	componentJSON := truncate(compactJSON(componentData), maxComponentJSON)

	instructions, ok := networkComponentInstructions[componentName]
	if !ok {
		instructions = "Analyze this network component."
	}

	return fmt.Sprintf(`Analyze this %s component of a Windows network configuration.

%s

%s data (sample):
`+"```json\n%s\n```"+`

Provide JSON analysis with issues, optimizations, and summary.
`, componentName, instructions, componentName, componentJSON)
}

// sampleList keeps the first two, two middle, and last items of a long
// list so the sample still spans the whole range.
func sampleList(list []any) []any {
	sample := make([]any, 0, 5)
	sample = append(sample, list[:2]...)
	if len(list) > 4 {
		middleStart := len(list)/2 - 1
		sample = append(sample, list[middleStart:middleStart+2]...)
	}
	sample = append(sample, list[len(list)-1])
	return sample
}

// networkSummaryPrompt asks for one consolidated summary of the
// per-component analyses.
func networkSummaryPrompt(componentSummaries []string, metrics map[string]any) string {
	adapters := asMap(metrics["adapters"])
	adapterInfo := fmt.Sprintf("Network Adapters: %v total (%v up, %v down)",
		adapters["count"], adapters["up"], adapters["down"])
	connectionsInfo := fmt.Sprintf("Active Connections: %v", asMap(metrics["connections"])["count"])

	return fmt.Sprintf(`Create a concise summary for the Network section based on these component analyses:

Metrics:
- %s
- %s

Component summaries:
%s

Provide JSON with just a "summary" field containing your network assessment.
`, adapterInfo, connectionsInfo, strings.Join(componentSummaries, "\n"))
}
