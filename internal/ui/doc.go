// Package ui renders styled, non-interactive CLI output with Lipgloss.
//
// Commands print through a Printer, which sizes boxes and tables to the
// terminal:
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintBanner(snap)
//	p.PrintStats(snap.Stats())
//	p.PrintTable(present.Table(records))
//
// Views come from the present package, so the CLI shows exactly the text the
// terminal UI and web dashboard show. Device tables use lipgloss/table with
// the category column colored per type.
//
// This package expects logging to be controlled via the MESHINV_LOG_LEVEL
// environment variable. When unset, zap logging is silent and the styled
// output is displayed cleanly.
package ui
