// Package config provides user configuration management for meshinv.
//
// Settings live in a YAML file that follows OS conventions for its location.
// A missing file is not an error: defaults apply. Command-line flags override
// whatever the file says.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/meshinv/config.yaml or $HOME/.config/meshinv/config.yaml
//   - macOS: $HOME/.config/meshinv/config.yaml
//   - Windows: %LOCALAPPDATA%\meshinv\config.yaml
//
// # Example
//
//	version: 1
//	base_url: http://10.0.0.1/cgi-bin/wg-mesh-discovery
//	request_timeout: 10s
//	max_retries: 3
//	fallback: placeholder
//	scan_settle_delay: 2s
//	export_dir: ~/Downloads
//	listen: :8080
//	refresh_schedule: "@every 1m"
//	mdns_service: _meshdisc._tcp
//	mdns_timeout: 5s
//
// # Usage
//
//	cfg, err := config.Load(path) // "" means the default location
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Save(path); err != nil {
//	    return err
//	}
//
// Saves are atomic: the file is written to a temporary path and renamed.
package config
