package discovery

import (
	"fmt"
	"time"
)

// Service represents a records API instance found on the local network.
type Service struct {
	// Instance is the advertised mDNS instance name.
	Instance string

	// Hostname is the mDNS hostname (e.g., "carelog-server.local.").
	Hostname string

	// IP is the IPv4 address, or IPv6 when no v4 address was advertised.
	IP string

	// Port is the HTTP port the API listens on.
	Port int

	// Metadata contains additional mDNS TXT record data.
	Metadata map[string]string

	// DiscoveredAt is when the service was found.
	DiscoveredAt time.Time
}

// String returns a human-readable representation of the service.
func (s *Service) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", s.Instance, s.Hostname, s.IP, s.Port)
}

// BaseURL returns the HTTP base URL for the service.
func (s *Service) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", s.IP, s.Port)
}

// GetMetadata retrieves a TXT record value by key, empty if absent.
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
