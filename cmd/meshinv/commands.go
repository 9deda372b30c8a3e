package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/meshinv/internal/config"
	"github.com/muurk/meshinv/internal/export"
	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/locate"
	"github.com/muurk/meshinv/internal/logging"
	"github.com/muurk/meshinv/internal/present"
	"github.com/muurk/meshinv/internal/server"
	"github.com/muurk/meshinv/internal/tui"
	"github.com/muurk/meshinv/internal/ui"
)

// Command flags
var (
	listQuery     string
	listType      string
	outputFormat  string
	exportOutput  string
	serveListen   string
	serveSchedule string
	serveCert     string
	serveKey      string
	locateTimeout int
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(configCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	logPath, err := initFileLogging()
	if err != nil {
		return err
	}
	defer logging.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.BaseURL == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Locating discovery service (%s)...\n", cfg.MDNSService)
	}
	ctrl, label, err := newController(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	model := tui.NewAppModel(cmd.Context(), ctrl, tui.Options{
		ExportDir: cfg.ExportDir,
		Source:    label,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w (log: %s)", err, logPath)
	}
	return nil
}

// listCmd prints the device table
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices",
	Long: `Fetch the device list and print it as a table.

The list can be narrowed with a case-insensitive search over IP, MAC, vendor
and hostname, and with a device type.`,
	Example: `  # All devices
  meshinv list

  # Printers whose vendor, IP, MAC or hostname contains "hp"
  meshinv list --query hp --type printer

  # Tab-separated output for scripting
  meshinv list --format compact

  # JSON output
  meshinv list --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search text")
	listCmd.Flags().StringVarP(&listType, "type", "t", "any", "Device type (printer, nas, camera, other, any)")
	listCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, compact, json)")
}

// deviceJSON is a record with its derived type
type deviceJSON struct {
	inventory.Record
	Type inventory.Category `json:"type"`
}

func runList(cmd *cobra.Command, args []string) error {
	category, err := inventory.ParseCategory(listType)
	if err != nil {
		return err
	}
	switch outputFormat {
	case "table", "compact", "json":
	default:
		return fmt.Errorf("unknown format %q (expected table, compact or json)", outputFormat)
	}

	_, snap, err := loadInventory(cmd)
	if err != nil {
		return err
	}
	criteria := inventory.Criteria{Query: listQuery, Category: category}

	out := ui.NewPrinter(cmd.OutOrStdout())
	switch outputFormat {
	case "json":
		ui.NewPrinter(cmd.ErrOrStderr()).PrintBanner(snap)
		records := criteria.Apply(snap.Records)
		devices := make([]deviceJSON, len(records))
		for i, r := range records {
			devices[i] = deviceJSON{Record: r, Type: r.Category()}
		}
		data, err := json.MarshalIndent(devices, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		out.Println(string(data))
	case "compact":
		ui.NewPrinter(cmd.ErrOrStderr()).PrintBanner(snap)
		out.PrintCompact(present.ForSnapshot(snap, criteria))
	default:
		out.PrintBanner(snap)
		out.PrintStats(snap.Stats())
		out.Newline()
		out.PrintTable(present.ForSnapshot(snap, criteria))
	}
	return nil
}

// showCmd prints every field of one device
var showCmd = &cobra.Command{
	Use:     "show <ip>",
	Short:   "Show one device",
	Long:    `Show every field of the device with the given IP address.`,
	Example: `  meshinv show 192.168.1.20`,
	Args:    cobra.ExactArgs(1),
	RunE:    runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	_, snap, err := loadInventory(cmd)
	if err != nil {
		return err
	}

	view, ok := present.Detail(snap.Records, args[0])
	if !ok {
		return fmt.Errorf("no device with IP %s", args[0])
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	out.PrintBanner(snap)
	out.PrintDetail(view)
	return nil
}

// statsCmd prints device counts per type
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show device counts per type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, snap, err := loadInventory(cmd)
		if err != nil {
			return err
		}
		out := ui.NewPrinter(cmd.OutOrStdout())
		out.PrintBanner(snap)
		out.PrintStats(snap.Stats())
		return nil
	},
}

// exportCmd writes devices.csv
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all devices as CSV",
	Long: `Write every device of the current inventory to a CSV file.

The file has the columns IP, MAC, Vendor, Type, Hostname and LastSeen (Unix
seconds). Without --output it is written to devices.csv in the configured
export directory.`,
	Example: `  # devices.csv in the export directory
  meshinv export

  # Explicit path
  meshinv export --output /tmp/inventory.csv

  # Standard output
  meshinv export --output -`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, - for stdout (default <export_dir>/devices.csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, snap, err := loadInventory(cmd)
	if err != nil {
		return err
	}

	data := export.CSV(snap.Records)
	if exportOutput == "-" {
		ui.NewPrinter(cmd.ErrOrStderr()).PrintBanner(snap)
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	path := exportOutput
	if path == "" {
		path = filepath.Join(cfg.ExportDir, export.Filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	out.PrintBanner(snap)
	out.PrintSuccess("Export complete", map[string]string{
		"File":    path,
		"Devices": strconv.Itoa(len(snap.Records)),
	})
	return nil
}

// scanCmd triggers a discovery pass
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Trigger a discovery scan and reload",
	Long: `Ask the discovery service to scan the network, then reload the device list.

If the scan request fails the reload still happens after a short settle
delay, so the counts printed always reflect the latest inventory.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctrl, _, err := newController(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Scanning...")
	snap, err := ctrl.Scan(cmd.Context())
	if err != nil {
		return err
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	out.PrintBanner(snap)
	out.PrintSuccess("Scan complete", map[string]string{
		"Devices": strconv.Itoa(len(snap.Records)),
	})
	out.PrintStats(snap.Stats())
	return nil
}

// serveCmd runs the web dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Long: `Serve the device dashboard over HTTP.

The page offers the same search, type filter, detail view, scan and export
as the terminal dashboard. Connected browsers reload when the inventory
changes. A cron expression in --schedule reloads the inventory periodically.`,
	Example: `  # Default address from the config (:8080)
  meshinv serve

  # Reload every minute on a custom port
  meshinv serve --listen :9000 --schedule "@every 1m"

  # HTTPS
  meshinv serve --tls-cert cert.pem --tls-key key.pem`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "", "Cron schedule for periodic reloads (e.g. \"@every 1m\")")
	serveCmd.Flags().StringVar(&serveCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveKey, "tls-key", "", "TLS private key file")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = serveListen
	}
	if flags.Changed("schedule") {
		cfg.RefreshSchedule = serveSchedule
	}
	if flags.Changed("tls-cert") {
		cfg.TLSCert = serveCert
	}
	if flags.Changed("tls-key") {
		cfg.TLSKey = serveKey
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctrl, label, err := newController(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	// A failed first load is shown on the dashboard
	_, _ = ctrl.Refresh(cmd.Context())

	srv, err := server.New(&server.Config{
		Listen:          cfg.Listen,
		CertPath:        cfg.TLSCert,
		KeyPath:         cfg.TLSKey,
		RefreshSchedule: cfg.RefreshSchedule,
	}, ctrl)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving dashboard for %s on %s\n", label, cfg.Listen)
	return srv.Start(cmd.Context())
}

// locateCmd lists discovery services advertised over mDNS
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find discovery services on the local network",
	Long: `Browse mDNS for discovery services and print the base URL of each.

meshinv uses the first service found whenever no base URL is configured.`,
	Example: `  # Browse for 5 seconds (default)
  meshinv locate

  # Longer browse for slow networks
  meshinv locate --timeout 15`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().IntVar(&locateTimeout, "timeout", 0, "Browse timeout in seconds (default from config, 5)")
}

func runLocate(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}
	defer logging.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	browser := locate.NewBrowser(cfg.MDNSService)
	browser.Timeout = cfg.MDNSTimeout
	if locateTimeout > 0 {
		browser.Timeout = time.Duration(locateTimeout) * time.Second
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Browsing for %s (timeout: %s)...\n\n", browser.Service, browser.Timeout)

	services, err := browser.Browse(cmd.Context())
	if err != nil {
		return fmt.Errorf("browse failed: %w", err)
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	if len(services) == 0 {
		out.PrintWarning("No discovery services found", map[string]string{
			"Service": browser.Service,
			"Hint":    "pass --base-url or increase --timeout",
		})
		return nil
	}

	out.Println(fmt.Sprintf("Found %d service(s):", len(services)))
	out.Newline()
	for i, svc := range services {
		out.Println(fmt.Sprintf("%d. %s", i+1, svc.Instance))
		out.Println(fmt.Sprintf("   Host:     %s", svc.Hostname))
		out.Println(fmt.Sprintf("   Base URL: %s", svc.BaseURL()))
		if len(svc.Metadata) > 0 {
			out.Println(fmt.Sprintf("   Metadata: %v", svc.Metadata))
		}
		out.Newline()
	}
	out.Println("Use 'meshinv --base-url <url>' to pick one explicitly")
	return nil
}

// configCmd manages the config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(configPath)
			if err != nil {
				return err
			}
			ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config created", map[string]string{"File": path})
			return nil
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				var err error
				if path, err = config.GetConfigPath(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
}
