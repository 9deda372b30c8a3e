package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/muurk/meshinv/internal/inventory"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Defaults
const (
	DefaultRequestTimeout  = 10 * time.Second
	DefaultMaxRetries      = 3
	DefaultSettleDelay     = 2 * time.Second
	DefaultListen          = ":8080"
	DefaultMDNSService     = "_meshdisc._tcp"
	DefaultMDNSTimeout     = 5 * time.Second
	DefaultExportDir       = "."
	DefaultFallbackSetting = string(inventory.FallbackPlaceholder)
)

// Config is the whole user configuration file
type Config struct {
	Version int `yaml:"version"`

	// BaseURL is the discovery service root. Empty means locate it over mDNS.
	BaseURL        string        `yaml:"base_url,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries"`

	// Fallback is "placeholder" or "error"
	Fallback        string        `yaml:"fallback"`
	ScanSettleDelay time.Duration `yaml:"scan_settle_delay"`

	ExportDir string `yaml:"export_dir"`

	Listen          string `yaml:"listen"`
	RefreshSchedule string `yaml:"refresh_schedule,omitempty"`

	// TLSCert and TLSKey enable HTTPS for serve when both are set
	TLSCert string `yaml:"tls_cert,omitempty"`
	TLSKey  string `yaml:"tls_key,omitempty"`

	MDNSService string        `yaml:"mdns_service"`
	MDNSTimeout time.Duration `yaml:"mdns_timeout"`
}

// New returns a Config with default values
func New() *Config {
	return &Config{
		Version:         CurrentVersion,
		RequestTimeout:  DefaultRequestTimeout,
		MaxRetries:      DefaultMaxRetries,
		Fallback:        DefaultFallbackSetting,
		ScanSettleDelay: DefaultSettleDelay,
		ExportDir:       DefaultExportDir,
		Listen:          DefaultListen,
		MDNSService:     DefaultMDNSService,
		MDNSTimeout:     DefaultMDNSTimeout,
	}
}

// applyDefaults fills zero values left by a partial file
func (c *Config) applyDefaults() {
	d := New()
	if c.RequestTimeout == 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.Fallback == "" {
		c.Fallback = d.Fallback
	}
	if c.ScanSettleDelay == 0 {
		c.ScanSettleDelay = d.ScanSettleDelay
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.MDNSService == "" {
		c.MDNSService = d.MDNSService
	}
	if c.MDNSTimeout == 0 {
		c.MDNSTimeout = d.MDNSTimeout
	}
}

// FallbackPolicy returns the parsed fallback setting
func (c *Config) FallbackPolicy() (inventory.FallbackPolicy, error) {
	return inventory.ParseFallbackPolicy(c.Fallback)
}

// Validate checks the values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	var problems []string

	if c.RequestTimeout < 0 {
		problems = append(problems, "request_timeout must not be negative")
	}
	if c.MaxRetries < 0 {
		problems = append(problems, "max_retries must not be negative")
	}
	if c.MDNSTimeout < 0 {
		problems = append(problems, "mdns_timeout must not be negative")
	}
	if _, err := c.FallbackPolicy(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("base_url %q must start with http:// or https://", c.BaseURL))
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		problems = append(problems, "tls_cert and tls_key must be set together")
	}
	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("refresh_schedule %q: %v", c.RefreshSchedule, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
