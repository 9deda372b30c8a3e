package inventory

import "pgregory.net/rapid"

var testVendors = []string{
	"", "HP Inc.", "Canon", "Synology Inc.", "QNAP Systems", "NETGEAR ReadyNAS",
	"Hikvision", "Axis Communications", "Apple Inc.", "Raspberry Pi Foundation", "Netgear",
}

// recordGen draws device records with realistic and arbitrary field values.
func recordGen() *rapid.Generator[Record] {
	return rapid.Custom(func(t *rapid.T) Record {
		r := Record{
			IP:  rapid.StringMatching(`10\.0\.[0-9]{1,3}\.[0-9]{1,3}`).Draw(t, "ip"),
			MAC: rapid.StringMatching(`[0-9a-f]{2}(:[0-9a-f]{2}){5}`).Draw(t, "mac"),
			Vendor: rapid.OneOf(
				rapid.SampledFrom(testVendors),
				rapid.String(),
			).Draw(t, "vendor"),
			Hostname: rapid.OneOf(
				rapid.Just(""),
				rapid.StringMatching(`[a-z]{1,8}-[0-9]{1,3}\.mesh`),
			).Draw(t, "hostname"),
			Method: rapid.SampledFrom([]string{"", "arp", "nmap", "mdns"}).Draw(t, "method"),
		}
		if rapid.Bool().Draw(t, "hasTimestamp") {
			r.Timestamp = Epoch(float64(rapid.Int64Range(1, 2_000_000_000).Draw(t, "ts")))
		}
		return r
	})
}

func recordsGen() *rapid.Generator[[]Record] {
	return rapid.SliceOfN(recordGen(), 0, 30)
}

func categoryGen() *rapid.Generator[Category] {
	return rapid.SampledFrom([]Category{CategoryAny, CategoryPrinter, CategoryNAS, CategoryCamera, CategoryOther})
}
