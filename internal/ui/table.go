package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/present"
)

// RenderTable renders a table view. Non-row states render their message in
// place of the table body.
func RenderTable(view present.TableView, width int) string {
	if view.State != present.StateRows {
		return renderMessageTable(view, width)
	}

	rows := make([][]string, len(view.Rows))
	for i, row := range view.Rows {
		rows[i] = row.Cells()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(present.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 3 && row >= 0 && row < len(view.Rows) {
				return TableCellStyle.Foreground(CategoryColor(view.Rows[row].Type)).Bold(true)
			}
			return TableCellStyle
		})

	return t.String()
}

func renderMessageTable(view present.TableView, width int) string {
	style := MutedStyle
	if view.State == present.StateError {
		style = ErrorMessageStyle
	}

	header := TableHeaderStyle.Render(strings.Join(present.Columns, "  "))
	body := style.Render(view.Message)

	return boxStyle(PrimaryColor, width).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

// RenderCompact renders one tab-separated line per row, without styling
func RenderCompact(view present.TableView) string {
	if view.State != present.StateRows {
		return view.Message
	}
	lines := make([]string, len(view.Rows))
	for i, row := range view.Rows {
		lines[i] = strings.Join(row.Cells(), "\t")
	}
	return strings.Join(lines, "\n")
}

// RenderDetail renders the detail view for one device
func RenderDetail(view present.DetailView, width int) string {
	lines := []string{TitleStyle.Render(view.Title), ""}
	for _, f := range view.Fields {
		value := ValueStyle.Render(f.Value)
		if f.Label == "Type" {
			value = Badge(view.Type)
		}
		lines = append(lines, KeyStyle.Render(f.Label)+" "+value)
	}
	return boxStyle(PrimaryColor, width).Render(strings.Join(lines, "\n"))
}

// RenderStats renders the stats strip: total followed by each category
func RenderStats(stats inventory.Stats) string {
	parts := []string{
		MutedStyle.Render("Total ") + StatValueStyle.Render(fmt.Sprint(stats.Total)),
	}
	for _, c := range inventory.Categories {
		label := lipgloss.NewStyle().Foreground(CategoryColor(c)).Render(c.Label() + " ")
		parts = append(parts, label+StatValueStyle.Render(fmt.Sprint(stats.Count(c))))
	}
	return strings.Join(parts, MutedStyle.Render("  │  "))
}

// RenderSourceBanner renders a warning when the snapshot is not live data.
// It returns "" for live snapshots.
func RenderSourceBanner(snap inventory.Snapshot) string {
	switch snap.Origin {
	case inventory.OriginPlaceholder:
		msg := WarningMarker + "  Showing placeholder data"
		if snap.Err != nil {
			msg += ": " + snap.Err.Error()
		}
		return WarningTitleStyle.Render(msg)
	case inventory.OriginFailed:
		return ErrorTitleStyle.Render(FailureMarker + "  Load failed")
	}
	return ""
}
