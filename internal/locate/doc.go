// Package locate finds the mesh discovery service over mDNS.
//
// Mesh nodes running the discovery service advertise it as "_meshdisc._tcp"
// in the "local." domain. The CGI path is carried in the "path" TXT key and
// defaults to /cgi-bin/wg-mesh-discovery.
//
//	browser := locate.NewBrowser("")
//	browser.Timeout = 3 * time.Second
//	baseURL, err := browser.BaseURL(ctx)
//	if errors.Is(err, locate.ErrNotFound) {
//	    // ask the user for --base-url
//	}
//
// Browsing always runs for the full timeout unless First finds a service
// earlier.
package locate
