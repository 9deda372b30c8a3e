package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// buildRouter creates the router with all routes and middleware
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	// Dashboard
	r.Get("/", s.handleDashboard)
	r.Post("/scan", s.handleScan)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/export", s.handleExport)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/devices", s.handleListDevices)
		r.Get("/devices/{ip}", s.handleGetDevice)
		r.Get("/stats", s.handleStats)
		r.Post("/scan", s.handleAPIScan)
		r.Post("/refresh", s.handleAPIRefresh)
	})

	return r
}
