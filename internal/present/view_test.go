package present

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/muurk/meshinv/internal/inventory"
)

var testRecords = []inventory.Record{
	{IP: "10.0.0.5", MAC: "00:11:22:33:44:55", Vendor: "HP Inc.", Timestamp: inventory.Epoch(1700000000)},
	{IP: "10.0.0.6", MAC: "00:11:22:33:44:66", Vendor: "Synology Inc.", Hostname: "nas.mesh", Method: "nmap"},
	{IP: "10.0.0.8", MAC: "aa:bb:cc:00:00:01", Timestamp: inventory.Epoch(0)},
}

func TestTable(t *testing.T) {
	view := Table(testRecords)

	if view.State != StateRows {
		t.Fatalf("State = %v, want rows", view.State)
	}
	if len(view.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(view.Rows))
	}

	want := []Row{
		{
			IP: "10.0.0.5", MAC: "00:11:22:33:44:55", Vendor: "HP Inc.", Type: inventory.CategoryPrinter,
			Hostname: "-", LastSeen: time.Unix(1700000000, 0).Local().Format(TimeLayout),
		},
		{
			IP: "10.0.0.6", MAC: "00:11:22:33:44:66", Vendor: "Synology Inc.", Type: inventory.CategoryNAS,
			Hostname: "nas.mesh", LastSeen: "Unknown",
		},
		{
			IP: "10.0.0.8", MAC: "aa:bb:cc:00:00:01", Vendor: "Unknown", Type: inventory.CategoryOther,
			Hostname: "-", LastSeen: "Unknown",
		},
	}
	if !reflect.DeepEqual(view.Rows, want) {
		t.Errorf("Rows = %+v\nwant %+v", view.Rows, want)
	}
}

func TestTable_Empty(t *testing.T) {
	for _, records := range [][]inventory.Record{nil, {}} {
		view := Table(records)
		if view.State != StateEmpty {
			t.Errorf("State = %v, want empty", view.State)
		}
		if view.Message != "No devices found" {
			t.Errorf("Message = %q", view.Message)
		}
	}
}

func TestLoadingAndFailedAreDistinct(t *testing.T) {
	loading := Loading()
	empty := Table(nil)
	failed := Failed(errors.New("render failed"))

	if loading.State == empty.State || loading.Message == empty.Message {
		t.Error("loading and empty views must differ")
	}
	if loading.Message != "Loading devices..." {
		t.Errorf("Loading().Message = %q", loading.Message)
	}
	if failed.State != StateError || failed.Message != "Failed to load devices: render failed" {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestForSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snap     inventory.Snapshot
		criteria inventory.Criteria
		want     State
		rows     int
	}{
		{"not loaded", inventory.Snapshot{}, inventory.Criteria{}, StateLoading, 0},
		{"failed", inventory.Snapshot{Origin: inventory.OriginFailed, Err: errors.New("down")}, inventory.Criteria{}, StateError, 0},
		{"live", inventory.Snapshot{Origin: inventory.OriginLive, Records: testRecords}, inventory.Criteria{}, StateRows, 3},
		{"placeholder", inventory.Snapshot{Origin: inventory.OriginPlaceholder, Records: testRecords}, inventory.Criteria{}, StateRows, 3},
		{"filtered", inventory.Snapshot{Origin: inventory.OriginLive, Records: testRecords}, inventory.Criteria{Query: "hp"}, StateRows, 1},
		{"filtered to nothing", inventory.Snapshot{Origin: inventory.OriginLive, Records: testRecords}, inventory.Criteria{Category: inventory.CategoryCamera}, StateEmpty, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ForSnapshot(tt.snap, tt.criteria)
			if view.State != tt.want {
				t.Errorf("State = %v, want %v", view.State, tt.want)
			}
			if len(view.Rows) != tt.rows {
				t.Errorf("len(Rows) = %d, want %d", len(view.Rows), tt.rows)
			}
		})
	}
}

func TestHPScenario(t *testing.T) {
	records := []inventory.Record{
		{IP: "10.0.0.5", MAC: "00:11:22:33:44:55", Vendor: "HP Inc.", Timestamp: inventory.Epoch(1700000000)},
	}

	if view := Table(inventory.Filter(records, "hp", inventory.CategoryAny)); view.State != StateRows || len(view.Rows) != 1 {
		t.Errorf("query hp: %+v", view)
	}
	if view := Table(inventory.Filter(records, "", inventory.CategoryNAS)); view.State != StateEmpty {
		t.Errorf("category nas: State = %v, want empty", view.State)
	}
}

func TestFormatLastSeen_FractionalSeconds(t *testing.T) {
	r := inventory.Record{Timestamp: inventory.Epoch(1700000000.9)}
	want := time.Unix(1700000000, 0).Local().Format(TimeLayout)
	if got := FormatLastSeen(r); got != want {
		t.Errorf("FormatLastSeen() = %q, want %q", got, want)
	}
}

func TestRowCells(t *testing.T) {
	row := Table(testRecords[:1]).Rows[0]
	cells := row.Cells()
	if len(cells) != len(Columns) {
		t.Fatalf("len(Cells()) = %d, want %d", len(cells), len(Columns))
	}
	if cells[3] != "printer" {
		t.Errorf("type cell = %q, want printer", cells[3])
	}
}
