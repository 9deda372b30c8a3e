package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/meshinv/internal/app"
	"github.com/muurk/meshinv/internal/config"
	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/locate"
	"github.com/muurk/meshinv/internal/logging"
	"github.com/muurk/meshinv/internal/source"
)

// Global flags
var (
	configPath string
	baseURL    string
	fallback   string
	timeout    time.Duration
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Discovery service URL (located over mDNS when empty)")
	rootCmd.PersistentFlags().StringVar(&fallback, "fallback", "", "On load failure show placeholder data or an error (placeholder, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout for the discovery service")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("fallback") {
		cfg.Fallback = fallback
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging routes logs to stderr so command output stays clean
func initLogging() error {
	return logging.InitializeWithOutput(logLevel, "stderr")
}

// initFileLogging routes logs to the log file so they never draw over the
// full-screen dashboard
func initFileLogging() (string, error) {
	path, err := config.GetLogPath()
	if err != nil {
		return "", err
	}
	return path, logging.InitializeWithOutput(logLevel, path)
}

// unresolvedService stands in for the discovery service when none could be
// located. Every call fails with the locate error, so the fallback policy
// decides what is shown.
type unresolvedService struct {
	err error
}

func (u unresolvedService) List(ctx context.Context) ([]inventory.Record, error) {
	return nil, u.err
}

func (u unresolvedService) Scan(ctx context.Context) error {
	return u.err
}

// newService returns the discovery service client and a label naming it.
// Without a configured base URL the service is located over mDNS.
func newService(ctx context.Context, cfg *config.Config) (app.Service, string) {
	url := cfg.BaseURL
	if url == "" {
		browser := locate.NewBrowser(cfg.MDNSService)
		browser.Timeout = cfg.MDNSTimeout

		located, err := browser.BaseURL(ctx)
		if err != nil {
			logging.Warn("Could not locate discovery service", zap.Error(err))
			err = source.NewUnavailableError(
				fmt.Sprintf("no base URL configured and %v", err), "mdns:"+browser.Service, err)
			return unresolvedService{err: err}, "no discovery service"
		}
		logging.Info("Located discovery service", zap.String("base_url", located))
		url = located
	}

	client := source.NewClient(url)
	client.SetTimeout(cfg.RequestTimeout)
	client.MaxRetries = cfg.MaxRetries
	return client, url
}

// newController builds the controller over the configured service
func newController(ctx context.Context, cfg *config.Config) (*app.Controller, string, error) {
	policy, err := cfg.FallbackPolicy()
	if err != nil {
		return nil, "", err
	}
	service, label := newService(ctx, cfg)
	ctrl := app.New(service, app.Options{
		Fallback:    policy,
		SettleDelay: cfg.ScanSettleDelay,
	})
	return ctrl, label, nil
}

// loadInventory sets up logging and the controller and performs the first load
func loadInventory(cmd *cobra.Command) (*config.Config, inventory.Snapshot, error) {
	if err := initLogging(); err != nil {
		return nil, inventory.Snapshot{}, err
	}
	defer logging.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, inventory.Snapshot{}, err
	}
	ctrl, _, err := newController(cmd.Context(), cfg)
	if err != nil {
		return nil, inventory.Snapshot{}, err
	}
	snap, err := ctrl.Refresh(cmd.Context())
	return cfg, snap, err
}
