package inventory

import "strings"

// Criteria is the user-controlled filter state.
type Criteria struct {
	Query    string
	Category Category
}

// Filter returns the records that match both the text query and the category
// constraint, in their original relative order.
//
// The query matches case-insensitively as a substring of the IP, MAC, vendor
// or hostname. An empty query matches everything; CategoryAny (or an empty
// category) disables the category constraint.
func Filter(records []Record, query string, category Category) []Record {
	q := strings.ToLower(query)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matchesQuery(r, q) && matchesCategory(r, category) {
			out = append(out, r)
		}
	}
	return out
}

// Apply is Filter with the criteria bundled.
func (c Criteria) Apply(records []Record) []Record {
	return Filter(records, c.Query, c.Category)
}

// IsZero reports whether the criteria select every record.
func (c Criteria) IsZero() bool {
	return c.Query == "" && (c.Category == "" || c.Category == CategoryAny)
}

func matchesQuery(r Record, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.IP), q) ||
		strings.Contains(strings.ToLower(r.MAC), q) ||
		strings.Contains(strings.ToLower(r.Vendor), q) ||
		strings.Contains(strings.ToLower(r.Hostname), q)
}

func matchesCategory(r Record, c Category) bool {
	if c == "" || c == CategoryAny {
		return true
	}
	return Classify(r.Vendor) == c
}
