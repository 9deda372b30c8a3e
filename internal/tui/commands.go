package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/meshinv/internal/app"
	"github.com/muurk/meshinv/internal/export"
	"github.com/muurk/meshinv/internal/inventory"
)

// Messages for async operations
type loadedMsg struct {
	snap inventory.Snapshot
	err  error
}

type scanDoneMsg struct {
	snap inventory.Snapshot
	err  error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

func refreshCmd(ctx context.Context, ctrl *app.Controller) tea.Cmd {
	return func() tea.Msg {
		snap, err := ctrl.Refresh(ctx)
		return loadedMsg{snap: snap, err: err}
	}
}

func scanCmd(ctx context.Context, ctrl *app.Controller) tea.Cmd {
	return func() tea.Msg {
		snap, err := ctrl.Scan(ctx)
		return scanDoneMsg{snap: snap, err: err}
	}
}

// exportCmd writes the whole snapshot, not the filtered view
func exportCmd(records []inventory.Record, dir string) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, export.Filename)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return exportDoneMsg{path: path, err: fmt.Errorf("failed to create export directory: %w", err)}
		}
		if err := os.WriteFile(path, export.CSV(records), 0644); err != nil {
			return exportDoneMsg{path: path, err: fmt.Errorf("failed to write export: %w", err)}
		}
		return exportDoneMsg{path: path, count: len(records)}
	}
}
