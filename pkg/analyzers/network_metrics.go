package analyzers

import "strings"

// sensitivePort is one active connection touching a watched port.
type sensitivePort struct {
	Port    string
	Service string
	Remote  string
}

// networkMetrics derives summary statistics from the Network section's
// structural components.
func networkMetrics(sectionData any) map[string]any {
	data := asMap(sectionData)
	if data == nil {
		return map[string]any{"error": "Invalid network data format"}
	}

	adapters := asList(data["Adapters"])
	adaptersUp, adaptersDown := 0, 0
	adapterTypes := map[string]int{}
	for _, adapter := range adapters {
		switch stringField(adapter, "Status") {
		case "Up":
			adaptersUp++
		case "Down":
			adaptersDown++
		}
		mediaType := stringField(adapter, "MediaType")
		if mediaType == "" {
			mediaType = "Unknown"
		}
		adapterTypes[mediaType]++
	}

	// DHCP vs static is a heuristic: the snapshot has no direct DHCP
	// flag, so we infer from the address ranges in use.
	ipConfig := asList(data["IPConfiguration"])
	dhcpCount, staticCount, publicIPCount := 0, 0, 0
	for _, config := range ipConfig {
		ip := stringField(config, "IPv4Address")
		if ip == "" {
			continue
		}
		private := privateIPInfo(ip)
		if private == nil {
			publicIPCount++
		}
		switch {
		case strings.HasPrefix(ip, "169.254."):
			// APIPA address means DHCP was attempted and failed.
			dhcpCount++
		case private != nil && private.Pattern.String() == `^10\.`:
			staticCount++
		case private != nil && private.Pattern.String() == `^192\.168\.`:
			dhcpCount++
		}
	}

	dnsSettings := asList(data["DNSSettings"])
	usingPublicDNS := false
	for _, dns := range dnsSettings {
		if m, ok := dns.(map[string]any); ok {
			for _, server := range asList(m["ServerAddresses"]) {
				if s, ok := server.(string); ok {
					if _, known := publicDNSServers[s]; known {
						usingPublicDNS = true
						break
					}
				}
			}
		}
		if usingPublicDNS {
			break
		}
	}

	// Port extraction takes the last colon-delimited token, which
	// handles host:port and bracketed IPv6, but not bare IPv6.
	connections := asList(data["ActiveConnections"])
	var sensitiveActive []sensitivePort
	for _, conn := range connections {
		remote := stringField(conn, "RemoteAddress")
		if !strings.Contains(remote, ":") {
			continue
		}
		parts := strings.Split(remote, ":")
		port := parts[len(parts)-1]
		if service, ok := sensitivePorts[port]; ok {
			sensitiveActive = append(sensitiveActive, sensitivePort{
				Port:    port,
				Service: service,
				Remote:  remote,
			})
		}
	}

	return map[string]any{
		"adapters": map[string]any{
			"count": len(adapters),
			"up":    adaptersUp,
			"down":  adaptersDown,
			"types": adapterTypes,
		},
		"ip_configuration": map[string]any{
			"estimated_dhcp":   dhcpCount,
			"estimated_static": staticCount,
			"public_ips":       publicIPCount,
		},
		"dns": map[string]any{
			"using_public_dns": usingPublicDNS,
		},
		"connections": map[string]any{
			"count":           len(connections),
			"sensitive_ports": sensitiveActive,
		},
	}
}
