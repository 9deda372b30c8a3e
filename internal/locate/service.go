package locate

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Service is a discovery service instance advertised over mDNS
type Service struct {
	// Instance is the advertised instance name (e.g., "mesh-gw")
	Instance string

	// Hostname is the mDNS hostname (e.g., "mesh-gw.local.")
	Hostname string

	// IP is the advertised address, IPv4 preferred
	IP string

	// Port is the HTTP port (80 when not advertised)
	Port int

	// Path is the CGI path from the "path" TXT key
	Path string

	// Metadata contains all TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the service was seen
	DiscoveredAt time.Time
}

// String returns a human-readable form of the service
func (s Service) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Hostname, s.BaseURL())
}

// BaseURL returns the discovery service root for this instance
func (s Service) BaseURL() string {
	host := net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
	return "http://" + host + s.Path
}

// parseTXT splits "key=value" TXT strings. A key without "=" maps to "".
func parseTXT(text []string) map[string]string {
	metadata := make(map[string]string, len(text))
	for _, txt := range text {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[strings.ToLower(key)] = value
	}
	return metadata
}
