// Package tui implements the interactive device dashboard.
//
// The dashboard is a single Bubble Tea model (AppModel) over an
// app.Controller. It shows the stats strip, the placeholder banner when the
// discovery service could not be reached, a search box with a type filter,
// and the device table. Enter opens a detail modal for the selected device;
// esc or a click outside the modal closes it.
//
// Scans, reloads and CSV export run as tea.Cmds and report back through
// messages, so the model never blocks. A scan disables the scan key until the
// controller reports the reload that follows it.
//
// Layout uses the shared container (RenderApplicationContainer) with a
// context-sensitive help footer built from bubbles/help key maps.
package tui
