package inventory

// Stats summarises a full snapshot. It never reflects filter state.
type Stats struct {
	Total    int `json:"total"`
	Printers int `json:"printers"`
	NAS      int `json:"nas"`
	Cameras  int `json:"cameras"`
	Other    int `json:"other"`
}

// Aggregate counts records per category.
func Aggregate(records []Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch Classify(r.Vendor) {
		case CategoryPrinter:
			s.Printers++
		case CategoryNAS:
			s.NAS++
		case CategoryCamera:
			s.Cameras++
		default:
			s.Other++
		}
	}
	return s
}

// Count returns the count for one category. CategoryAny returns the total.
func (s Stats) Count(c Category) int {
	switch c {
	case CategoryPrinter:
		return s.Printers
	case CategoryNAS:
		return s.NAS
	case CategoryCamera:
		return s.Cameras
	case CategoryOther:
		return s.Other
	default:
		return s.Total
	}
}
