package analyzers

import "regexp"

// Human-readable names for adapter media types.
var mediaTypes = map[string]string{
	"802.3":         "Ethernet",
	"Native 802.11": "Wi-Fi",
	"Wireless WAN":  "Mobile/Cellular",
	"Bluetooth":     "Bluetooth PAN",
	"1394":          "FireWire",
	"USB":           "USB adapter",
}

// Meanings of the adapter status values Windows reports.
var adapterStatus = map[string]string{
	"Up":             "Connected and operational",
	"Down":           "Disconnected or disabled",
	"Testing":        "In testing mode",
	"Unknown":        "Status cannot be determined",
	"Dormant":        "Not in use but ready",
	"NotPresent":     "Hardware not present",
	"LowerLayerDown": "Underlying connection is down",
}

// Well-known public DNS resolvers.
var publicDNSServers = map[string]string{
	"8.8.8.8":         "Google Public DNS",
	"8.8.4.4":         "Google Public DNS (Secondary)",
	"1.1.1.1":         "Cloudflare DNS",
	"1.0.0.1":         "Cloudflare DNS (Secondary)",
	"9.9.9.9":         "Quad9 DNS",
	"149.112.112.112": "Quad9 DNS (Secondary)",
	"208.67.222.222":  "OpenDNS",
	"208.67.220.220":  "OpenDNS (Secondary)",
}

// Ports whose presence in active connections deserves attention.
var sensitivePorts = map[string]string{
	"20":   "FTP Data",
	"21":   "FTP Control",
	"22":   "SSH",
	"23":   "Telnet",
	"25":   "SMTP",
	"53":   "DNS",
	"80":   "HTTP",
	"88":   "Kerberos",
	"110":  "POP3",
	"135":  "MS RPC",
	"137":  "NetBIOS Name Service",
	"138":  "NetBIOS Datagram",
	"139":  "NetBIOS Session",
	"143":  "IMAP",
	"161":  "SNMP",
	"389":  "LDAP",
	"443":  "HTTPS",
	"445":  "SMB/CIFS",
	"514":  "Syslog",
	"636":  "LDAPS",
	"1433": "SQL Server",
	"1434": "SQL Server Browser",
	"3306": "MySQL",
	"3389": "RDP",
	"5900": "VNC",
	"8080": "HTTP Alternate",
}

// ipRange is one private address range with its explanation.
type ipRange struct {
	Pattern     *regexp.Regexp
	Description string
}

var privateIPRanges = []ipRange{
	{regexp.MustCompile(`^10\.`), "Class A private network (10.0.0.0/8)"},
	{regexp.MustCompile(`^172\.(1[6-9]|2[0-9]|3[0-1])\.`), "Class B private network (172.16.0.0/12)"},
	{regexp.MustCompile(`^192\.168\.`), "Class C private network (192.168.0.0/16)"},
	{regexp.MustCompile(`^127\.`), "Localhost (127.0.0.0/8)"},
	{regexp.MustCompile(`^169\.254\.`), "Link-local address (169.254.0.0/16), indicates DHCP failure"},
	{regexp.MustCompile(`^fe80:`), "IPv6 link-local address"},
	{regexp.MustCompile(`^::1$`), "IPv6 localhost"},
	{regexp.MustCompile(`^fd`), "IPv6 unique local address (private)"},
}

// privateIPInfo returns the matching private range for an address, or
// nil for public addresses.
func privateIPInfo(ip string) *ipRange {
	for i := range privateIPRanges {
		if privateIPRanges[i].Pattern.MatchString(ip) {
			return &privateIPRanges[i]
		}
	}
	return nil
}
