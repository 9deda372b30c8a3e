package inventory

import (
	"fmt"
	"strings"
	"time"
)

// Record is one observed network device as reported by the discovery service.
type Record struct {
	// IP is the device address, unique within one snapshot (not enforced)
	IP string `json:"ip"`

	// MAC is the hardware address, display only
	MAC string `json:"mac"`

	// Vendor is the free-text manufacturer label (empty when unknown)
	Vendor string `json:"vendor,omitempty"`

	// Hostname is the resolved DNS name (empty when unresolved)
	Hostname string `json:"hostname,omitempty"`

	// Method is the discovery technique label (e.g. "arp", "nmap", "mdns")
	Method string `json:"method,omitempty"`

	// Timestamp is the last observation time in Unix epoch seconds.
	// The discovery service may send fractional seconds.
	Timestamp *float64 `json:"timestamp,omitempty"`
}

// Category returns the derived device type for this record.
func (r Record) Category() Category {
	return Classify(r.Vendor)
}

// LastSeen returns the observation time, or false when the record carries no
// timestamp. A zero timestamp counts as absent.
func (r Record) LastSeen() (time.Time, bool) {
	if r.Timestamp == nil || *r.Timestamp == 0 {
		return time.Time{}, false
	}
	sec := int64(*r.Timestamp)
	nsec := int64((*r.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec), true
}

// Validate reports whether the record carries the required identifiers.
func (r Record) Validate() error {
	if strings.TrimSpace(r.IP) == "" {
		return fmt.Errorf("record is missing ip")
	}
	if strings.TrimSpace(r.MAC) == "" {
		return fmt.Errorf("record %s is missing mac", r.IP)
	}
	return nil
}

// String returns a short human-readable form of the record
func (r Record) String() string {
	vendor := r.Vendor
	if vendor == "" {
		vendor = "Unknown"
	}
	return fmt.Sprintf("%s (%s, %s)", r.IP, r.MAC, vendor)
}

// Epoch is a convenience for building records with a timestamp.
func Epoch(seconds float64) *float64 {
	return &seconds
}

// FindByIP returns the first record with the given address.
func FindByIP(records []Record, ip string) (Record, bool) {
	for _, r := range records {
		if r.IP == ip {
			return r, true
		}
	}
	return Record{}, false
}
