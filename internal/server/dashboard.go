package server

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/muurk/meshinv/internal/app"
	"github.com/muurk/meshinv/internal/export"
	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/logging"
	"github.com/muurk/meshinv/internal/present"
	"github.com/muurk/meshinv/internal/version"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// statCard is one cell of the stats strip
type statCard struct {
	Label string
	Value int
	Class string
}

// typeOption is one entry of the type select
type typeOption struct {
	Value    string
	Label    string
	Selected bool
}

// pageRow is a table row with the link that opens its detail overlay
type pageRow struct {
	present.Row
	URL string
}

type dashboardPage struct {
	Version    string
	Generation uint64
	Stats      []statCard
	Banner     string
	Query      string
	Type       string
	Types      []typeOption
	Columns    []string
	State      string
	Message    string
	Rows       []pageRow
	Detail     *present.DetailView
	CloseURL   string
	Scanning   bool
}

// setView replaces the table body of the page
func (p *dashboardPage) setView(view present.TableView, criteria inventory.Criteria) {
	p.State = view.State.String()
	p.Message = view.Message
	p.Rows = nil
	for _, row := range view.Rows {
		p.Rows = append(p.Rows, pageRow{
			Row: row,
			URL: dashboardURL(criteria.Query, criteria.Category, row.IP),
		})
	}
}

// dashboardURL builds a dashboard link that keeps the filter state
func dashboardURL(query string, category inventory.Category, device string) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if category != "" && category != inventory.CategoryAny {
		v.Set("type", string(category))
	}
	if device != "" {
		v.Set("device", device)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// formCriteria reads the filter state from query or form values. An unknown
// type falls back to no constraint.
func formCriteria(r *http.Request) inventory.Criteria {
	category, err := inventory.ParseCategory(r.FormValue("type"))
	if err != nil {
		category = inventory.CategoryAny
	}
	return inventory.Criteria{Query: r.FormValue("q"), Category: category}
}

func (s *Server) newDashboardPage(snap inventory.Snapshot, criteria inventory.Criteria, device string) dashboardPage {
	stats := snap.Stats()
	page := dashboardPage{
		Version:    version.Version,
		Generation: snap.Generation,
		Stats: []statCard{
			{Label: "Total", Value: stats.Total, Class: "total"},
		},
		Query:    criteria.Query,
		Type:     string(criteria.Category),
		Columns:  present.Columns,
		CloseURL: dashboardURL(criteria.Query, criteria.Category, ""),
		Scanning: s.ctrl.Scanning(),
	}

	for _, c := range inventory.Categories {
		page.Stats = append(page.Stats, statCard{Label: c.Label(), Value: stats.Count(c), Class: string(c)})
	}

	for _, c := range append([]inventory.Category{inventory.CategoryAny}, inventory.Categories...) {
		page.Types = append(page.Types, typeOption{
			Value:    string(c),
			Label:    c.Label(),
			Selected: c == criteria.Category,
		})
	}

	if snap.Origin == inventory.OriginPlaceholder {
		page.Banner = "Showing placeholder data"
		if snap.Err != nil {
			page.Banner += ": " + snap.Err.Error()
		}
	}

	page.setView(present.ForSnapshot(snap, criteria), criteria)

	if device != "" {
		if detail, ok := present.Detail(snap.Records, device); ok {
			page.Detail = &detail
		}
	}

	return page
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	criteria := formCriteria(r)
	page := s.newDashboardPage(s.ctrl.Snapshot(), criteria, r.URL.Query().Get("device"))

	var buf bytes.Buffer
	if err := s.dashboard.Execute(&buf, page); err != nil {
		logging.Error("Failed to render dashboard", zap.Error(err))

		// Retry with the error in place of the table body
		page.setView(present.Failed(err), criteria)
		page.Detail = nil
		buf.Reset()
		if err := s.dashboard.Execute(&buf, page); err != nil {
			logging.Error("Failed to render dashboard error page", zap.Error(err))
			http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleScan runs a scan from the dashboard form and returns to the
// dashboard with the same filters.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	criteria := formCriteria(r)

	if _, err := s.ctrl.Scan(r.Context()); errors.Is(err, app.ErrScanInProgress) {
		http.Error(w, "Scan already in progress", http.StatusConflict)
		return
	}

	http.Redirect(w, r, dashboardURL(criteria.Query, criteria.Category, ""), http.StatusSeeOther)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	criteria := formCriteria(r)

	// A failed load is shown by the dashboard itself
	_, _ = s.ctrl.Refresh(r.Context())

	http.Redirect(w, r, dashboardURL(criteria.Query, criteria.Category, ""), http.StatusSeeOther)
}

// handleExport downloads the full snapshot as devices.csv
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	_, _ = w.Write(export.CSV(snap.Records))
}
