package api

import (
	"encoding/json"
	"net/http"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
)

// handleListSources returns the device's source catalogue untouched.
func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetSources(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleSetSource switches playback to a named source.
func (s *Server) handleSetSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source        string `json:"source"`
		SourceAccount string `json:"source_account"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Source == "" {
		writeBadRequest(w, "body must carry a source")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.SetSource(r.Context(), ctrl, req.Source, req.SourceAccount); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"source": req.Source,
	})
}

// handleSourceTV switches to the TV input.
func (s *Server) handleSourceTV(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.SwitchToTV(r.Context(), ctrl); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"source": "tv",
	})
}

// handleSourceBluetooth switches to the Bluetooth source.
func (s *Server) handleSourceBluetooth(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.SwitchToBluetooth(r.Context(), ctrl); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"source": "bluetooth",
	})
}

// handleBluetoothStatus returns the Bluetooth pairing/connection state.
func (s *Server) handleBluetoothStatus(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetBluetoothStatus(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}
