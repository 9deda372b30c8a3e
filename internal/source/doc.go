// Package source is the HTTP client for the mesh discovery service.
//
// The service exposes two endpoints below its base URL:
//
//	GET  <base>/list?format=json   JSON array of device records
//	POST <base>/scan               start a new discovery pass
//
// # Usage
//
//	client := source.NewClient("http://10.0.0.1/cgi-bin/wg-mesh-discovery")
//	client.SetTimeout(5 * time.Second)
//
//	records, err := client.List(ctx)
//	if err != nil {
//	    fmt.Println(source.ShortMessage(err))
//	    fmt.Println(source.TroubleshootingHint(err))
//	}
//
// # Errors
//
// All failures are reported as *SourceError with one of three types:
// ErrTypeUnavailable (transport failures and HTTP 5xx), ErrTypeMalformed (the
// body is not an array of records) and ErrTypeHTTP (other non-2xx statuses).
// Unavailable errors are retried with exponential backoff; the caller's context
// bounds the whole call including retries.
package source
