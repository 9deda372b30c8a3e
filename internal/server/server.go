package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/muurk/meshinv/internal/app"
	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/logging"
)

// shutdownTimeout bounds how long in-flight requests may take on shutdown
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Listen   string
	CertPath string // Path to certificate file, enables TLS with KeyPath
	KeyPath  string // Path to private key file

	// RefreshSchedule is a cron expression ("@every 1m", "*/5 * * * *").
	// Empty disables scheduled reloads.
	RefreshSchedule string
}

// Server serves the device dashboard and pushes snapshot events to websocket
// clients.
type Server struct {
	config      *Config
	ctrl        *app.Controller
	tlsConfig   *tls.Config
	schedule    cron.Schedule
	hub         *Hub
	dashboard   *template.Template
	unsubscribe func()

	mu         sync.Mutex
	httpServer *http.Server
	scheduler  *cron.Cron
}

// New creates a server over ctrl. Every snapshot the controller's store
// applies is broadcast to connected websocket clients from here on.
func New(config *Config, ctrl *app.Controller) (*Server, error) {
	s := &Server{
		config:    config,
		ctrl:      ctrl,
		hub:       NewHub(),
		dashboard: dashboardTemplate,
	}

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		s.tlsConfig = tlsConfig
	}

	if config.RefreshSchedule != "" {
		schedule, err := cron.ParseStandard(config.RefreshSchedule)
		if err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", config.RefreshSchedule, err)
		}
		s.schedule = schedule
	}

	s.unsubscribe = ctrl.Store().Subscribe(func(snap inventory.Snapshot) {
		s.hub.Broadcast(EventSnapshot, newSnapshotEvent(snap))
	})

	return s, nil
}

// Handler returns the HTTP handler with every route mounted
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start listens on the configured address and blocks until ctx is done, an
// interrupt arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Serve(sigCtx, listener)
}

// Serve serves on listener until ctx is done or the listener fails. The
// server is shut down gracefully before Serve returns.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	scheme := "http"
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
		scheme = "https"
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	s.startScheduler(ctx)

	logging.Info("Dashboard listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("scheme", scheme),
		zap.String("refresh_schedule", s.config.RefreshSchedule),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startScheduler reloads the store on the configured schedule
func (s *Server) startScheduler(ctx context.Context) {
	if s.schedule == nil {
		return
	}

	c := cron.New()
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.ctrl.Refresh(ctx); err != nil {
			logging.Warn("Scheduled refresh failed", zap.Error(err))
		}
	}))
	c.Start()

	s.mu.Lock()
	s.scheduler = c
	s.mu.Unlock()
}

// Shutdown stops the scheduler, disconnects websocket clients and waits for
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	scheduler := s.scheduler
	httpServer := s.httpServer
	s.scheduler = nil
	s.httpServer = nil
	s.mu.Unlock()

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
			logging.Warn("Scheduled refresh still running at shutdown")
		}
	}

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.hub.CloseAll()

	var err error
	if httpServer != nil {
		if err = httpServer.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			err = fmt.Errorf("shutting down dashboard: %w", err)
		}
	}

	logging.Sync()
	return err
}

// GetActiveConnections returns the number of connected websocket clients
func (s *Server) GetActiveConnections() int {
	return s.hub.ClientCount()
}
