package present

import (
	"github.com/muurk/meshinv/internal/inventory"
)

// TimeLayout is the layout used for last-seen times, in local time
const TimeLayout = "2006-01-02 15:04:05"

// Placeholder texts for absent fields
const (
	UnknownText = "Unknown"
	DashText    = "-"
)

// Messages shown instead of table rows
const (
	LoadingMessage = "Loading devices..."
	EmptyMessage   = "No devices found"
)

// State is the display state of a table view
type State int

const (
	StateLoading State = iota
	StateEmpty
	StateRows
	StateError
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateRows:
		return "rows"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Row is one table line with fallbacks applied
type Row struct {
	IP       string
	MAC      string
	Vendor   string
	Type     inventory.Category
	Hostname string
	LastSeen string
}

// Cells returns the row in column order
func (r Row) Cells() []string {
	return []string{r.IP, r.MAC, r.Vendor, r.Type.String(), r.Hostname, r.LastSeen}
}

// Columns are the table headers in display order
var Columns = []string{"IP Address", "MAC Address", "Vendor", "Type", "Hostname", "Last Seen"}

// TableView is the tabular view of a record set
type TableView struct {
	State   State
	Rows    []Row
	Message string
}

// Table builds the view for records. An empty set yields StateEmpty.
func Table(records []inventory.Record) TableView {
	if len(records) == 0 {
		return TableView{State: StateEmpty, Message: EmptyMessage}
	}

	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			IP:       r.IP,
			MAC:      r.MAC,
			Vendor:   orDefault(r.Vendor, UnknownText),
			Type:     r.Category(),
			Hostname: orDefault(r.Hostname, DashText),
			LastSeen: FormatLastSeen(r),
		}
	}
	return TableView{State: StateRows, Rows: rows}
}

// Loading is the view shown before the first load completes
func Loading() TableView {
	return TableView{State: StateLoading, Message: LoadingMessage}
}

// Failed is the view that replaces the table body with an error message
func Failed(err error) TableView {
	msg := "Failed to load devices"
	if err != nil {
		msg += ": " + err.Error()
	}
	return TableView{State: StateError, Message: msg}
}

// ForSnapshot builds the view of snap narrowed by criteria. A snapshot that
// has not finished loading is shown as loading and a failed one as an error.
func ForSnapshot(snap inventory.Snapshot, criteria inventory.Criteria) TableView {
	switch snap.Origin {
	case inventory.OriginNone:
		return Loading()
	case inventory.OriginFailed:
		return Failed(snap.Err)
	}
	return Table(criteria.Apply(snap.Records))
}

// FormatLastSeen renders the record's timestamp in local time, or "Unknown"
func FormatLastSeen(r inventory.Record) string {
	t, ok := r.LastSeen()
	if !ok {
		return UnknownText
	}
	return t.Local().Format(TimeLayout)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
