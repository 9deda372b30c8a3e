package present

import (
	"github.com/muurk/meshinv/internal/inventory"
)

// Field is one labelled value in a detail view
type Field struct {
	Label string
	Value string
}

// DetailView shows every field of one record
type DetailView struct {
	Title  string
	IP     string
	Type   inventory.Category
	Fields []Field
}

// Detail builds the detail view for the record with the given IP.
// It returns false when no record has that IP; callers leave their state as is.
func Detail(records []inventory.Record, ip string) (DetailView, bool) {
	r, ok := inventory.FindByIP(records, ip)
	if !ok {
		return DetailView{}, false
	}
	return DetailOf(r), true
}

// DetailOf builds the detail view for r
func DetailOf(r inventory.Record) DetailView {
	return DetailView{
		Title: "Device: " + r.IP,
		IP:    r.IP,
		Type:  r.Category(),
		Fields: []Field{
			{Label: "IP Address", Value: r.IP},
			{Label: "MAC Address", Value: r.MAC},
			{Label: "Vendor", Value: orDefault(r.Vendor, UnknownText)},
			{Label: "Type", Value: r.Category().String()},
			{Label: "DNS Name", Value: orDefault(r.Hostname, DashText)},
			{Label: "Discovery", Value: orDefault(r.Method, DashText)},
			{Label: "Last Seen", Value: FormatLastSeen(r)},
		},
	}
}

// Value returns the value of the field with the given label
func (d DetailView) Value(label string) (string, bool) {
	for _, f := range d.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}
