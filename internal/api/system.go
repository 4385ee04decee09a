package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
)

// handleSystemInfo returns the device information blob untouched.
func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetSystemInfo(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleCapabilities returns the capability catalogue untouched.
func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetCapabilities(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleGetPower reads the power state.
func (s *Server) handleGetPower(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	state, err := bose.GetPowerState(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleSetPower sets the power state. Accepts "on", "off" and "toggle";
// toggle reads the current state first and flips it.
func (s *Server) handleSetPower(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	var target string
	switch strings.ToLower(req.State) {
	case "on":
		target = bose.PowerOn
	case "off":
		target = bose.PowerOff
	case "toggle":
		current, err := bose.GetPowerState(r.Context(), ctrl)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		target = bose.PowerOn
		if current.Power == bose.PowerOn {
			target = bose.PowerOff
		}
	default:
		writeBadRequest(w, "state must be on, off or toggle")
		return
	}

	if err := bose.SetPowerState(r.Context(), ctrl, target); err != nil {
		writeDomainError(w, err)
		return
	}

	s.announcePower(target)
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"power":  target,
	})
}

// handleGetSystemTimeout reads the no-audio auto-off setting.
func (s *Server) handleGetSystemTimeout(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	timeouts, err := bose.GetSystemTimeout(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timeouts)
}

// handleSetSystemTimeout sets the no-audio auto-off setting.
func (s *Server) handleSetSystemTimeout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NoAudio *bool `json:"no_audio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.NoAudio == nil {
		writeBadRequest(w, "body must carry no_audio")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.SetSystemTimeout(r.Context(), ctrl, *req.NoAudio); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bose.PowerTimeouts{NoAudio: *req.NoAudio})
}

// handleProductSettings returns the product settings blob untouched.
func (s *Server) handleProductSettings(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetProductSettings(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleGetCEC reads the HDMI CEC mode.
func (s *Server) handleGetCEC(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	cec, err := bose.GetCEC(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cec)
}

// handleSetCEC sets the HDMI CEC mode.
func (s *Server) handleSetCEC(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Mode == "" {
		writeBadRequest(w, "body must carry a mode")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.SetCEC(r.Context(), ctrl, req.Mode); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bose.CECSettings{Mode: req.Mode})
}

// handleNetworkStatus returns the network interface status untouched.
func (s *Server) handleNetworkStatus(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetNetworkStatus(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleGetAccessories returns the paired accessory state untouched.
func (s *Server) handleGetAccessories(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetAccessories(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleSetAccessories enables or disables accessory groups. Omitted
// fields default to enabled.
func (s *Server) handleSetAccessories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subs  *bool `json:"subs"`
		Rears *bool `json:"rears"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	subs, rears := true, true
	if req.Subs != nil {
		subs = *req.Subs
	}
	if req.Rears != nil {
		rears = *req.Rears
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.SetAccessories(r.Context(), ctrl, subs, rears)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// handleBattery returns the battery status of portable models untouched.
func (s *Server) handleBattery(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetBattery(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// announcePower publishes a power event when the announcer is up.
func (s *Server) announcePower(state string) {
	if s.mqtt == nil {
		return
	}
	if err := s.mqtt.AnnouncePower(state); err != nil {
		s.logger.Debug("announcing power", "error", err)
	}
}
