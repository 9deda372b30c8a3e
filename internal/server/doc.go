// Package server implements the embedded web dashboard for meshinv serve.
//
// The dashboard renders the same views as the terminal UI from the
// controller's current snapshot:
//
//	GET  /                 stats, search form, type filter, device table
//	GET  /?device=<ip>     the same page with the detail overlay open
//	POST /scan             trigger a scan, reload, redirect back (409 while running)
//	POST /refresh          reload, redirect back
//	GET  /export           devices.csv attachment of the full snapshot
//	GET  /ws               websocket push of snapshot events
//	GET  /api/devices      JSON, filtered with ?q= and ?type=
//	GET  /api/devices/{ip} JSON, one device
//	GET  /api/stats        JSON stats of the current snapshot
//
// Every snapshot the store applies, whether from a form post, the API, or
// the optional cron refresh schedule, is broadcast to websocket clients as
//
//	{"type":"event","event_type":"snapshot","payload":{"total":4,...}}
//
// and the page reloads itself when the generation differs from the one it
// was rendered with.
package server
