// Package inventory holds the device record model and the pure pipeline that
// turns a raw record list into a categorized, searchable view.
//
// # Pipeline
//
// The data flow is:
//
//	Source -> Store -> {Aggregate, Filter -> presenter}
//	                -> exporter
//
// The Store owns the single in-memory snapshot. Classify, Filter and Aggregate
// are pure functions over a record slice and never touch the Store directly,
// so any surface (terminal UI, web dashboard, CLI) can recompute its views from
// the current snapshot plus its own filter state.
//
// # Classification
//
// A record's Category is never stored. It is derived from the vendor text on
// every call using an ordered rule list where the first matching rule wins:
//
//	printer  hp, canon, epson, brother, printer
//	nas      synology, qnap, nas, netgear ... ready
//	camera   hikvision, dahua, axis, camera
//	other    everything else, including an empty vendor
//
// # Snapshots
//
// Each Load replaces the snapshot wholesale. Loads are numbered; a load that
// finishes after a newer one has already been applied is discarded, so the
// last load started is the one that wins.
package inventory
