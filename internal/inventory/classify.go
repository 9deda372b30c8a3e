package inventory

import (
	"fmt"
	"strings"
)

// Category is the closed set of device types derived from vendor text.
type Category string

const (
	CategoryPrinter Category = "printer"
	CategoryNAS     Category = "nas"
	CategoryCamera  Category = "camera"
	CategoryOther   Category = "other"

	// CategoryAny is a filter constraint only; Classify never returns it.
	CategoryAny Category = "any"
)

// Categories lists the classifier outputs in rule priority order.
var Categories = []Category{CategoryPrinter, CategoryNAS, CategoryCamera, CategoryOther}

// String implements fmt.Stringer
func (c Category) String() string {
	return string(c)
}

// Label returns the display label used in stats cards and filter selectors.
func (c Category) Label() string {
	switch c {
	case CategoryPrinter:
		return "Printers"
	case CategoryNAS:
		return "NAS"
	case CategoryCamera:
		return "Cameras"
	case CategoryOther:
		return "Other"
	case CategoryAny:
		return "All types"
	default:
		return string(c)
	}
}

// ParseCategory parses a filter value. The empty string and "any" both mean
// no category constraint.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return CategoryAny, nil
	case "printer":
		return CategoryPrinter, nil
	case "nas":
		return CategoryNAS, nil
	case "camera":
		return CategoryCamera, nil
	case "other":
		return CategoryOther, nil
	default:
		return "", fmt.Errorf("unknown device type %q (expected printer, nas, camera, other or any)", s)
	}
}

// rule pairs a category with the predicate that selects it. The predicate
// receives the lower-cased vendor text.
type rule struct {
	category Category
	match    func(vendor string) bool
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{CategoryPrinter, containsAny("hp", "canon", "epson", "brother", "printer")},
	{CategoryNAS, anyOf(containsAny("synology", "qnap", "nas"), followedBy("netgear", "ready"))},
	{CategoryCamera, containsAny("hikvision", "dahua", "axis", "camera")},
}

// Classify maps a vendor label to a device category.
// An empty vendor is always CategoryOther.
func Classify(vendor string) Category {
	if vendor == "" {
		return CategoryOther
	}
	v := strings.ToLower(vendor)
	for _, r := range rules {
		if r.match(v) {
			return r.category
		}
	}
	return CategoryOther
}

func containsAny(needles ...string) func(string) bool {
	return func(s string) bool {
		for _, n := range needles {
			if strings.Contains(s, n) {
				return true
			}
		}
		return false
	}
}

// followedBy matches when first occurs and second occurs somewhere after it.
func followedBy(first, second string) func(string) bool {
	return func(s string) bool {
		i := strings.Index(s, first)
		if i < 0 {
			return false
		}
		return strings.Contains(s[i+len(first):], second)
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}
