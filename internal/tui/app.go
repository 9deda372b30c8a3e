package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/meshinv/internal/app"
	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/present"
	"github.com/muurk/meshinv/internal/ui"
)

// typeCycle is the order tab steps through the type filter
var typeCycle = []inventory.Category{
	inventory.CategoryAny,
	inventory.CategoryPrinter,
	inventory.CategoryNAS,
	inventory.CategoryCamera,
	inventory.CategoryOther,
}

const refreshingStatus = "Refreshing..."

// Options configures the dashboard
type Options struct {
	// ExportDir receives devices.csv on export
	ExportDir string
	// Source describes the discovery service in the header
	Source string
}

// AppModel is the interactive device dashboard
type AppModel struct {
	ctx       context.Context
	ctrl      *app.Controller
	exportDir string
	source    string

	// Data
	snap     inventory.Snapshot
	criteria inventory.Criteria
	view     present.TableView

	// Components
	table   table.Model
	search  textinput.Model
	spinner spinner.Model
	help    help.Model

	browseKeys browseKeyMap
	searchKeys searchKeyMap
	detailKeys detailKeyMap

	// UI state
	searching bool
	detail    *present.DetailView
	scanning  bool
	status    string
	statusErr bool

	Width  int
	Height int
}

// NewAppModel creates the dashboard. Nothing is loaded until Init runs.
func NewAppModel(ctx context.Context, ctrl *app.Controller, opts Options) AppModel {
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	search := textinput.New()
	search.Placeholder = "Search IP, MAC, vendor or hostname"
	search.Prompt = "/ "
	search.PromptStyle = FocusedInputStyle
	search.CharLimit = 64
	search.Width = 36

	t := table.New(
		table.WithColumns(columnsFor(DefaultWidth)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(DefaultHeight)),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(TextColor).
		Background(PrimaryColor).
		Bold(false)
	t.SetStyles(ts)

	m := AppModel{
		ctx:        ctx,
		ctrl:       ctrl,
		exportDir:  opts.ExportDir,
		source:     opts.Source,
		snap:       ctrl.Snapshot(),
		criteria:   inventory.Criteria{Category: inventory.CategoryAny},
		table:      t,
		search:     search,
		spinner:    s,
		help:       help.New(),
		browseKeys: newBrowseKeyMap(),
		searchKeys: newSearchKeyMap(),
		detailKeys: newDetailKeyMap(),
	}
	m.rebuild()
	return m
}

// Init starts the first load
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctx, m.ctrl), m.spinner.Tick)
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columnsFor(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		return m, nil

	case loadedMsg:
		m.applySnapshot(msg.snap)
		if msg.err != nil {
			m.setError("Refresh failed: " + msg.err.Error())
		} else if m.status == refreshingStatus {
			m.setStatus(fmt.Sprintf("Loaded %d devices", len(msg.snap.Records)))
		}
		return m, nil

	case scanDoneMsg:
		m.scanning = false
		switch {
		case errors.Is(msg.err, app.ErrScanInProgress):
			m.setError("Scan already in progress")
		case msg.err != nil:
			m.applySnapshot(msg.snap)
			m.setError("Scan failed: " + msg.err.Error())
		default:
			m.applySnapshot(msg.snap)
			m.setStatus(fmt.Sprintf("Scan complete, %d devices", len(msg.snap.Records)))
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setError("Export failed: " + msg.err.Error())
		} else {
			m.setStatus(fmt.Sprintf("Exported %d devices to %s", msg.count, msg.path))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.detail != nil:
			return m.updateDetail(msg)
		case m.searching:
			return m.updateSearch(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m AppModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.browseKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.browseKeys.Open):
		row := m.table.SelectedRow()
		if len(row) == 0 {
			return m, nil
		}
		if view, ok := present.Detail(m.snap.Records, row[0]); ok {
			m.detail = &view
		}
		return m, nil

	case key.Matches(msg, m.browseKeys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.browseKeys.NextType):
		m.cycleType(1)
		return m, nil

	case key.Matches(msg, m.browseKeys.PrevType):
		m.cycleType(-1)
		return m, nil

	case key.Matches(msg, m.browseKeys.ClearQuery):
		if m.criteria.Query != "" {
			m.search.SetValue("")
			m.criteria.Query = ""
			m.rebuild()
		}
		return m, nil

	case key.Matches(msg, m.browseKeys.Scan):
		if m.scanning {
			return m, nil
		}
		m.scanning = true
		m.status = ""
		return m, tea.Batch(scanCmd(m.ctx, m.ctrl), m.spinner.Tick)

	case key.Matches(msg, m.browseKeys.Refresh):
		m.setStatus(refreshingStatus)
		return m, refreshCmd(m.ctx, m.ctrl)

	case key.Matches(msg, m.browseKeys.Export):
		if !m.snap.Loaded() {
			m.setError("Nothing to export yet")
			return m, nil
		}
		return m, exportCmd(m.snap.Records, m.exportDir)

	case key.Matches(msg, m.browseKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Let the table handle navigation
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m AppModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeys.Done):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.searchKeys.NextType):
		m.cycleType(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.criteria.Query {
		m.criteria.Query = q
		m.rebuild()
	}
	return m, cmd
}

func (m AppModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.detailKeys.Close) {
		m.detail = nil
	}
	return m, nil
}

// updateMouse closes the detail modal on a click outside its box
func (m AppModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	w, h := m.size()
	if !ModalBounds(m.detailContent(w), w, h).Contains(msg.X, msg.Y) {
		m.detail = nil
	}
	return m, nil
}

// applySnapshot installs snap unless an older load finished after a newer one
func (m *AppModel) applySnapshot(snap inventory.Snapshot) {
	if snap.Generation < m.snap.Generation {
		return
	}
	m.snap = snap
	m.rebuild()
}

// rebuild recomputes the view and table rows from the snapshot and criteria
func (m *AppModel) rebuild() {
	m.view = present.ForSnapshot(m.snap, m.criteria)
	rows := make([]table.Row, len(m.view.Rows))
	for i, r := range m.view.Rows {
		rows[i] = table.Row(r.Cells())
	}
	m.table.SetRows(rows)
	// An empty table leaves the cursor at -1.
	switch c := m.table.Cursor(); {
	case c < 0:
		m.table.SetCursor(0)
	case c >= len(rows):
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *AppModel) cycleType(step int) {
	i := 0
	for j, c := range typeCycle {
		if c == m.criteria.Category {
			i = j
			break
		}
	}
	n := len(typeCycle)
	m.criteria.Category = typeCycle[((i+step)%n+n)%n]
	m.rebuild()
}

func (m *AppModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *AppModel) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m AppModel) busy() bool {
	return m.scanning || !m.snap.Loaded()
}

func (m AppModel) size() (int, int) {
	w, h := m.Width, m.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	return w, h
}

// View renders the dashboard, or the detail modal when one is open
func (m AppModel) View() string {
	w, h := m.size()

	if m.detail != nil {
		return RenderModal(m.detailContent(w), w, h)
	}

	return RenderApplicationContainer(BuildHeaderContent(m.source), m.renderContent(), m.renderFooter(), w, h)
}

func (m AppModel) renderContent() string {
	var b strings.Builder

	b.WriteString(ui.RenderStats(m.snap.Stats()))
	b.WriteString("\n")
	if banner := ui.RenderSourceBanner(m.snap); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	switch m.view.State {
	case present.StateRows:
		b.WriteString(m.table.View())
	case present.StateLoading:
		b.WriteString(MessageStyle.Render(m.spinner.View() + " " + m.view.Message))
	case present.StateError:
		b.WriteString(ErrorMessageStyle.Render(m.view.Message))
	default:
		b.WriteString(MessageStyle.Render(m.view.Message))
	}
	b.WriteString("\n")

	if line := m.renderStatus(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func (m AppModel) renderFilters() string {
	search := m.search.View()
	if !m.searching && m.criteria.Query == "" {
		search = SubtitleStyle.Render("/ to search")
	}
	chip := FilterChipStyle.Render("Type: " + m.criteria.Category.Label())
	count := SubtitleStyle.Render(fmt.Sprintf("%d shown", len(m.view.Rows)))
	return lipgloss.JoinHorizontal(lipgloss.Top, search, "   ", chip, "   ", count)
}

func (m AppModel) renderStatus() string {
	if m.scanning {
		return m.spinner.View() + " " + StatusStyle.Render("Scanning...")
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return StatusErrorStyle.Render(m.status)
	}
	return StatusStyle.Render(m.status)
}

func (m AppModel) renderFooter() string {
	switch {
	case m.searching:
		return m.help.View(m.searchKeys)
	default:
		return m.help.View(m.browseKeys)
	}
}

func (m AppModel) detailContent(terminalWidth int) string {
	box := ui.RenderDetail(*m.detail, SafeModalWidth(ModalWidth, terminalWidth))
	return lipgloss.JoinVertical(lipgloss.Center, box, m.help.View(m.detailKeys))
}

// tableHeight leaves room for the header, stats, filters, status and footer
func tableHeight(terminalHeight int) int {
	return max(terminalHeight-16, 3)
}

// columnsFor sizes the table columns to the terminal width. Vendor and
// Hostname share whatever the fixed columns leave over.
func columnsFor(terminalWidth int) []table.Column {
	const (
		ipWidth   = 15
		macWidth  = 17
		typeWidth = 8
		seenWidth = 19
		padding   = 2 * 6
	)
	flex := terminalWidth - 4 - padding - ipWidth - macWidth - typeWidth - seenWidth
	vendor := max(flex*55/100, 8)
	host := max(flex-vendor, 8)

	widths := []int{ipWidth, macWidth, vendor, typeWidth, host, seenWidth}
	cols := make([]table.Column, len(present.Columns))
	for i, title := range present.Columns {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}
