// Package app wires the record store to the discovery service and owns the
// scan trigger shared by every surface.
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/logging"
)

// DefaultSettleDelay is how long a failed scan trigger waits before reloading
const DefaultSettleDelay = 2 * time.Second

// ErrScanInProgress is returned by Scan while another scan is running
var ErrScanInProgress = errors.New("scan already in progress")

// Scanner triggers a discovery pass on the service
type Scanner interface {
	Scan(ctx context.Context) error
}

// Service is the discovery service as seen by the controller
type Service interface {
	inventory.Source
	Scanner
}

// Options configures a Controller
type Options struct {
	// Fallback decides what a failed load shows
	Fallback inventory.FallbackPolicy

	// SettleDelay is waited after a failed scan trigger before reloading.
	// Zero means DefaultSettleDelay; negative disables the wait.
	SettleDelay time.Duration
}

// Controller runs loads and scans against one Store
type Controller struct {
	store       *inventory.Store
	scanner     Scanner
	settleDelay time.Duration
	scanning    atomic.Bool
}

// New creates a controller for service
func New(service Service, opts Options) *Controller {
	settle := opts.SettleDelay
	if settle == 0 {
		settle = DefaultSettleDelay
	}
	if settle < 0 {
		settle = 0
	}
	return &Controller{
		store:       inventory.NewStore(service, opts.Fallback),
		scanner:     service,
		settleDelay: settle,
	}
}

// Store returns the underlying record store
func (c *Controller) Store() *inventory.Store {
	return c.store
}

// Snapshot returns the current snapshot
func (c *Controller) Snapshot() inventory.Snapshot {
	return c.store.Snapshot()
}

// SettleDelay returns the wait applied after a failed scan trigger
func (c *Controller) SettleDelay() time.Duration {
	return c.settleDelay
}

// Refresh reloads the device list. When a newer load wins the race the newer
// snapshot is returned without error.
func (c *Controller) Refresh(ctx context.Context) (inventory.Snapshot, error) {
	snap, err := c.store.Load(ctx)
	if errors.Is(err, inventory.ErrSuperseded) {
		return snap, nil
	}
	if err != nil {
		logging.LogLoad(snap.Origin.String(), 0, err)
		return snap, err
	}
	logging.LogLoad(snap.Origin.String(), len(snap.Records), snap.Err)
	return snap, nil
}

// Scanning reports whether a scan is in flight
func (c *Controller) Scanning() bool {
	return c.scanning.Load()
}

// Scan triggers a discovery pass and then reloads. A failed trigger is logged,
// followed by the settle delay, and the reload happens regardless, also when
// ctx is cancelled after the trigger. Only the reload's outcome is returned.
// While a scan is running further calls return ErrScanInProgress without
// contacting the service.
func (c *Controller) Scan(ctx context.Context) (inventory.Snapshot, error) {
	if !c.scanning.CompareAndSwap(false, true) {
		return c.store.Snapshot(), ErrScanInProgress
	}
	defer c.scanning.Store(false)

	err := c.scanner.Scan(ctx)
	logging.LogScan(err, c.settleDelay)

	// Once triggered, the settle delay and reload run even if ctx ends.
	if err != nil && c.settleDelay > 0 {
		time.Sleep(c.settleDelay)
	}
	return c.Refresh(context.WithoutCancel(ctx))
}
