package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/meshinv/internal/app"
	"github.com/muurk/meshinv/internal/export"
	"github.com/muurk/meshinv/internal/inventory"
)

type fakeService struct {
	records []inventory.Record
	listErr error
	scanErr error
	scans   int
}

func (f *fakeService) List(ctx context.Context) ([]inventory.Record, error) {
	return f.records, f.listErr
}

func (f *fakeService) Scan(ctx context.Context) error {
	f.scans++
	return f.scanErr
}

var testRecords = []inventory.Record{
	{IP: "10.0.0.5", MAC: "00:11:22:33:44:55", Vendor: "HP Inc.", Hostname: "laserjet.lan", Timestamp: inventory.Epoch(1700000000)},
	{IP: "10.0.0.6", MAC: "00:11:32:aa:bb:cc", Vendor: "Synology Incorporated"},
	{IP: "10.0.0.7", MAC: "44:19:b6:01:02:03", Vendor: "Hangzhou Hikvision"},
	{IP: "10.0.0.8", MAC: "b8:27:eb:00:00:01", Vendor: ""},
}

// newLoadedModel returns a dashboard with the first load applied
func newLoadedModel(t *testing.T, svc *fakeService) AppModel {
	t.Helper()
	ctrl := app.New(svc, app.Options{SettleDelay: -1})
	m := NewAppModel(context.Background(), ctrl, Options{ExportDir: t.TempDir(), Source: "test"})
	msg := refreshCmd(context.Background(), ctrl)()
	return update(t, m, msg)
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, want AppModel", next)
	}
	return am
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewAppModel_Loading(t *testing.T) {
	ctrl := app.New(&fakeService{}, app.Options{})
	m := NewAppModel(context.Background(), ctrl, Options{})

	if m.view.Message != "Loading devices..." {
		t.Errorf("view message = %q, want loading", m.view.Message)
	}
	if !strings.Contains(m.View(), "Loading devices...") {
		t.Error("View() does not show the loading message")
	}
	if m.exportDir != "." {
		t.Errorf("exportDir = %q, want .", m.exportDir)
	}
}

func TestLoaded_PopulatesTable(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})

	if got := len(m.table.Rows()); got != len(testRecords) {
		t.Fatalf("table rows = %d, want %d", got, len(testRecords))
	}
	row := m.table.Rows()[3]
	if row[2] != "Unknown" || row[3] != "other" || row[4] != "-" || row[5] != "Unknown" {
		t.Errorf("fallback row = %v", row)
	}
	if !strings.Contains(m.View(), "10.0.0.5") {
		t.Error("View() does not list the first device")
	}
}

func TestLoaded_Empty(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: []inventory.Record{}})

	if !strings.Contains(m.View(), "No devices found") {
		t.Error("View() does not show the empty message")
	}
}

func TestLoaded_PlaceholderBanner(t *testing.T) {
	m := newLoadedModel(t, &fakeService{listErr: errors.New("connection refused")})

	if m.snap.Origin != inventory.OriginPlaceholder {
		t.Fatalf("Origin = %v, want placeholder", m.snap.Origin)
	}
	if !strings.Contains(m.View(), "placeholder data") {
		t.Error("View() does not show the placeholder banner")
	}
}

func TestLoaded_IgnoresStaleSnapshot(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})
	current := m.snap.Generation

	stale := inventory.Snapshot{Origin: inventory.OriginLive, Generation: current - 1}
	m = update(t, m, loadedMsg{snap: stale})

	if m.snap.Generation != current {
		t.Errorf("Generation = %d, want %d", m.snap.Generation, current)
	}
	if len(m.table.Rows()) != len(testRecords) {
		t.Errorf("stale load replaced rows")
	}
}

func TestSearch_FiltersRows(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})

	m = update(t, m, runes("/"))
	if !m.searching {
		t.Fatal("'/' did not focus search")
	}
	m = update(t, m, runes("syno"))

	if m.criteria.Query != "syno" {
		t.Errorf("Query = %q, want syno", m.criteria.Query)
	}
	rows := m.table.Rows()
	if len(rows) != 1 || rows[0][0] != "10.0.0.6" {
		t.Errorf("rows = %v, want the Synology device only", rows)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Error("enter did not leave search")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.criteria.Query != "" || len(m.table.Rows()) != len(testRecords) {
		t.Errorf("esc did not clear the query: %q, %d rows", m.criteria.Query, len(m.table.Rows()))
	}
}

func TestSearch_NoMatches(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})
	m = update(t, m, runes("/"))
	m = update(t, m, runes("zzz"))

	if len(m.table.Rows()) != 0 {
		t.Errorf("rows = %d, want 0", len(m.table.Rows()))
	}
	if !strings.Contains(m.View(), "No devices found") {
		t.Error("View() does not show the empty message")
	}
}

func TestTypeCycle(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})

	want := []struct {
		category inventory.Category
		ip       string
	}{
		{inventory.CategoryPrinter, "10.0.0.5"},
		{inventory.CategoryNAS, "10.0.0.6"},
		{inventory.CategoryCamera, "10.0.0.7"},
		{inventory.CategoryOther, "10.0.0.8"},
	}
	for _, w := range want {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.criteria.Category != w.category {
			t.Fatalf("Category = %v, want %v", m.criteria.Category, w.category)
		}
		rows := m.table.Rows()
		if len(rows) != 1 || rows[0][0] != w.ip {
			t.Errorf("%v rows = %v, want %s", w.category, rows, w.ip)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.criteria.Category != inventory.CategoryAny {
		t.Errorf("Category = %v, want any after wrapping", m.criteria.Category)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.criteria.Category != inventory.CategoryOther {
		t.Errorf("Category = %v, want other after shift+tab", m.criteria.Category)
	}
}

func TestCursor_FirstRowAfterEmptyTable(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})

	if c := m.table.Cursor(); c != 0 {
		t.Errorf("Cursor() after first load = %d, want 0", c)
	}
	if row := m.table.SelectedRow(); len(row) == 0 || row[0] != "10.0.0.5" {
		t.Errorf("SelectedRow() = %v, want the first device", row)
	}

	// empty the table, then widen the filter again
	m = update(t, m, runes("/"))
	m = update(t, m, runes("zzz"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if len(m.table.Rows()) != len(testRecords) {
		t.Fatalf("rows = %d, want %d", len(m.table.Rows()), len(testRecords))
	}
	if row := m.table.SelectedRow(); len(row) == 0 || row[0] != "10.0.0.5" {
		t.Errorf("SelectedRow() after widening = %v, want the first device", row)
	}
}

func TestDetail_OpenAndClose(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.detail == nil {
		t.Fatal("enter did not open the detail modal")
	}
	if m.detail.Title != "Device: 10.0.0.5" {
		t.Errorf("Title = %q", m.detail.Title)
	}
	if v, _ := m.detail.Value("DNS Name"); v != "laserjet.lan" {
		t.Errorf("DNS Name = %q", v)
	}
	if !strings.Contains(m.View(), "Device: 10.0.0.5") {
		t.Error("View() does not render the modal")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail != nil {
		t.Error("esc did not close the modal")
	}
}

func TestDetail_ClickOutsideCloses(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	bounds := ModalBounds(m.detailContent(120), 120, 40)

	inside := tea.MouseMsg{X: bounds.X0 + 1, Y: bounds.Y0 + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = update(t, m, inside)
	if m.detail == nil {
		t.Fatal("click inside closed the modal")
	}

	release := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	m = update(t, m, release)
	if m.detail == nil {
		t.Fatal("mouse release closed the modal")
	}

	outside := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = update(t, m, outside)
	if m.detail != nil {
		t.Error("click outside did not close the modal")
	}
}

func TestDetail_KeysIgnoredBehindModal(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.criteria.Category != inventory.CategoryAny {
		t.Error("tab changed the filter while the modal was open")
	}
}

func TestScan_DisabledWhileRunning(t *testing.T) {
	svc := &fakeService{records: testRecords}
	m := newLoadedModel(t, svc)

	next, cmd := m.Update(runes("s"))
	m = next.(AppModel)
	if !m.scanning || cmd == nil {
		t.Fatal("scan key did not start a scan")
	}
	if !strings.Contains(m.View(), "Scanning...") {
		t.Error("View() does not show scanning state")
	}

	_, cmd = m.Update(runes("s"))
	if cmd != nil {
		t.Error("second scan key press returned a command")
	}

	m = update(t, m, scanCmd(context.Background(), m.ctrl)())
	if m.scanning {
		t.Error("scan did not finish")
	}
	if svc.scans != 1 {
		t.Errorf("scans = %d, want 1", svc.scans)
	}
	if !strings.Contains(m.status, "Scan complete") {
		t.Errorf("status = %q", m.status)
	}
}

func TestScan_InProgressReported(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})
	m.scanning = true

	m = update(t, m, scanDoneMsg{snap: m.snap, err: app.ErrScanInProgress})
	if m.scanning || !m.statusErr || m.status != "Scan already in progress" {
		t.Errorf("scanning=%v status=%q", m.scanning, m.status)
	}
}

func TestExport_WritesSnapshot(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})

	// narrow the view; export still covers every record
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := m.Update(runes("e"))
	if cmd == nil {
		t.Fatal("export key returned no command")
	}
	msg, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatalf("export command returned %T", msg)
	}
	if msg.err != nil {
		t.Fatalf("export error = %v", msg.err)
	}
	if msg.count != len(testRecords) || filepath.Base(msg.path) != export.Filename {
		t.Errorf("export = %+v", msg)
	}

	got, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(export.CSV(testRecords)) {
		t.Errorf("exported file = %q", got)
	}

	m = update(t, m, msg)
	if m.statusErr || !strings.Contains(m.status, "Exported 4 devices") {
		t.Errorf("status = %q", m.status)
	}
}

func TestExport_BeforeLoad(t *testing.T) {
	ctrl := app.New(&fakeService{}, app.Options{})
	m := NewAppModel(context.Background(), ctrl, Options{})

	next, cmd := m.Update(runes("e"))
	if cmd != nil {
		t.Error("export before load returned a command")
	}
	if !next.(AppModel).statusErr {
		t.Error("export before load did not report an error")
	}
}

func TestQuit(t *testing.T) {
	m := newLoadedModel(t, &fakeService{records: testRecords})

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestColumnsFor(t *testing.T) {
	for _, width := range []int{MinTerminalWidth, DefaultWidth, 200} {
		cols := columnsFor(width)
		if len(cols) != 6 {
			t.Fatalf("columns = %d, want 6", len(cols))
		}
		for _, c := range cols {
			if c.Width < 8 {
				t.Errorf("width %d: column %q is %d wide", width, c.Title, c.Width)
			}
		}
	}
}
