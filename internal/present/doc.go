// Package present turns device records into display-ready views.
//
// Views are plain data with every fallback already applied ("Unknown" vendor,
// "-" hostname, formatted last-seen time), so the CLI, terminal UI and web
// dashboard render the same text for the same record:
//
//	view := present.Table(inventory.Filter(snap.Records, query, category))
//	switch view.State {
//	case present.StateEmpty:
//	    fmt.Println(view.Message)
//	case present.StateRows:
//	    for _, row := range view.Rows { ... }
//	}
//
// A table view is in one of four states. StateLoading is shown before the
// first load completes and StateEmpty when a load produced no matching rows.
// StateError replaces the table body with a message. StateRows holds the rows.
package present
