package inventory

import "time"

// PlaceholderRecords returns the built-in demo inventory used when the data
// source cannot be reached and the fallback policy allows it. Every record is
// stamped with now.
func PlaceholderRecords(now time.Time) []Record {
	ts := float64(now.UnixNano()) / float64(time.Second)
	return []Record{
		{IP: "192.168.1.50", MAC: "aa:bb:cc:dd:ee:01", Vendor: "HP Inc.", Method: "arp", Timestamp: Epoch(ts), Hostname: "printer-50.mesh"},
		{IP: "192.168.1.100", MAC: "aa:bb:cc:dd:ee:02", Vendor: "Synology Inc.", Method: "arp", Timestamp: Epoch(ts), Hostname: "nas-100.mesh"},
		{IP: "192.168.1.110", MAC: "aa:bb:cc:dd:ee:03", Vendor: "Hikvision", Method: "nmap", Timestamp: Epoch(ts), Hostname: "camera-110.mesh"},
		{IP: "192.168.1.25", MAC: "aa:bb:cc:dd:ee:04", Vendor: "Apple Inc.", Method: "mdns", Timestamp: Epoch(ts), Hostname: "device-25.mesh"},
	}
}
