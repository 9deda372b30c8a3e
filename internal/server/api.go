package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muurk/meshinv/internal/app"
	"github.com/muurk/meshinv/internal/inventory"
)

// StatsResponse is the JSON form of inventory.Stats
type StatsResponse struct {
	Total    int `json:"total"`
	Printers int `json:"printers"`
	NAS      int `json:"nas"`
	Cameras  int `json:"cameras"`
	Other    int `json:"other"`
}

func newStatsResponse(s inventory.Stats) StatsResponse {
	return StatsResponse{
		Total:    s.Total,
		Printers: s.Printers,
		NAS:      s.NAS,
		Cameras:  s.Cameras,
		Other:    s.Other,
	}
}

// Device is a record with its derived type
type Device struct {
	inventory.Record
	Type inventory.Category `json:"type"`
}

// DevicesResponse is returned by GET /api/devices
type DevicesResponse struct {
	Origin  string   `json:"origin"`
	Error   string   `json:"error,omitempty"`
	Count   int      `json:"count"`
	Devices []Device `json:"devices"`
}

// criteriaFromRequest reads the q and type query parameters
func criteriaFromRequest(r *http.Request) (inventory.Criteria, error) {
	q := r.URL.Query()
	category, err := inventory.ParseCategory(q.Get("type"))
	if err != nil {
		return inventory.Criteria{}, err
	}
	return inventory.Criteria{Query: q.Get("q"), Category: category}, nil
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	snap := s.ctrl.Snapshot()
	records := criteria.Apply(snap.Records)

	resp := DevicesResponse{
		Origin:  snap.Origin.String(),
		Count:   len(records),
		Devices: make([]Device, len(records)),
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	for i, rec := range records {
		resp.Devices[i] = Device{Record: rec, Type: rec.Category()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	ip := chi.URLParam(r, "ip")
	rec, ok := inventory.FindByIP(s.ctrl.Snapshot().Records, ip)
	if !ok {
		writeNotFound(w, "no device with IP "+ip)
		return
	}
	writeJSON(w, http.StatusOK, Device{Record: rec, Type: rec.Category()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSnapshotEvent(s.ctrl.Snapshot()))
}

func (s *Server) handleAPIScan(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctrl.Scan(r.Context())
	switch {
	case errors.Is(err, app.ErrScanInProgress):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, ErrCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotEvent(snap))
}

func (s *Server) handleAPIRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctrl.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, ErrCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotEvent(snap))
}
