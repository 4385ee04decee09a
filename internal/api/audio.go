package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
)

// audioSettings names the int-valued settings reachable via
// /audio/settings/{setting}. Anything else is rejected before a device
// call is made.
var audioSettings = map[string]bool{
	"bass":          true,
	"treble":        true,
	"center":        true,
	"subwooferGain": true,
	"surround":      true,
	"height":        true,
	"avSync":        true,
}

// handleGetVolume returns the current volume state.
func (s *Server) handleGetVolume(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	vol, err := bose.GetVolume(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vol)
}

// setVolumeRequest accepts both spellings seen in the wild.
type setVolumeRequest struct {
	Value  *int `json:"value"`
	Volume *int `json:"volume"`
}

func (r setVolumeRequest) target() (int, bool) {
	if r.Value != nil {
		return *r.Value, true
	}
	if r.Volume != nil {
		return *r.Volume, true
	}
	return 0, false
}

// handleSetVolume sets an absolute volume, clamped to the device range.
func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	var req setVolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	target, ok := req.target()
	if !ok {
		writeBadRequest(w, "body must carry a volume value")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	// Read first so the target can be clamped to the device's range.
	current, err := bose.GetVolume(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	vol, err := bose.SetVolume(r.Context(), ctrl, clampVolume(target, current))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.announceVolume(vol)
	writeJSON(w, http.StatusOK, vol)
}

// handleVolumeUp raises the volume by the configured step.
func (s *Server) handleVolumeUp(w http.ResponseWriter, r *http.Request) {
	s.stepVolume(w, r, +1)
}

// handleVolumeDown lowers the volume by the configured step.
func (s *Server) handleVolumeDown(w http.ResponseWriter, r *http.Request) {
	s.stepVolume(w, r, -1)
}

// stepVolume reads the current volume, applies the configured step in
// the given direction, clamps to the device's reported range, and sets.
func (s *Server) stepVolume(w http.ResponseWriter, r *http.Request, direction int) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	current, err := bose.GetVolume(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	target := clampVolume(current.Value+direction*s.device.VolumeStep, current)

	vol, err := bose.SetVolume(r.Context(), ctrl, target)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.announceVolume(vol)
	writeJSON(w, http.StatusOK, vol)
}

// handleVolumeMute toggles mute.
func (s *Server) handleVolumeMute(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	current, err := bose.GetVolume(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	vol, err := bose.SetMuted(r.Context(), ctrl, !current.Muted)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.announceVolume(vol)
	writeJSON(w, http.StatusOK, vol)
}

// handleGetAudioSetting reads a named audio setting.
func (s *Server) handleGetAudioSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "setting")
	if !audioSettings[name] {
		writeBadRequest(w, "unknown audio setting: "+name)
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	setting, err := bose.GetAudioSetting(r.Context(), ctrl, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// handleSetAudioSetting adjusts a named audio setting.
func (s *Server) handleSetAudioSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "setting")
	if !audioSettings[name] {
		writeBadRequest(w, "unknown audio setting: "+name)
		return
	}

	var req struct {
		Value *int `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Value == nil {
		writeBadRequest(w, "body must carry a value")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	setting, err := bose.SetAudioSetting(r.Context(), ctrl, name, *req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// handleGetAudioMode reads the dialogue/audio mode.
func (s *Server) handleGetAudioMode(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	mode, err := bose.GetAudioMode(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mode)
}

// handleSetAudioMode selects the dialogue/audio mode.
func (s *Server) handleSetAudioMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Value == "" {
		writeBadRequest(w, "body must carry a mode value")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	mode, err := bose.SetAudioMode(r.Context(), ctrl, req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mode)
}

// handleGetDualMono reads the dual-mono selection.
func (s *Server) handleGetDualMono(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	setting, err := bose.GetDualMono(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// handleSetDualMono selects the dual-mono channel.
func (s *Server) handleSetDualMono(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Value == "" {
		writeBadRequest(w, "body must carry a value")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.SetDualMono(r.Context(), ctrl, req.Value); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bose.DualMonoSetting{Value: req.Value})
}

// handleGetRebroadcastLatency reads the rebroadcast latency mode.
func (s *Server) handleGetRebroadcastLatency(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	latency, err := bose.GetRebroadcastLatency(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, latency)
}

// handleSetRebroadcastLatency sets the rebroadcast latency mode.
func (s *Server) handleSetRebroadcastLatency(w http.ResponseWriter, r *http.Request) {
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

	if err := bose.SetRebroadcastLatency(r.Context(), ctrl, req.Mode); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bose.RebroadcastLatency{Mode: req.Mode})
}

// clampVolume bounds a target volume to the device's reported range.
// A degenerate range (max not above min) only floors at zero.
func clampVolume(target int, vol bose.Volume) int {
	if vol.Max > vol.Min {
		if target > vol.Max {
			return vol.Max
		}
		if target < vol.Min {
			return vol.Min
		}
		return target
	}
	if target < 0 {
		return 0
	}
	return target
}

// announceVolume publishes a volume event when the announcer is up.
func (s *Server) announceVolume(vol bose.Volume) {
	if s.mqtt == nil {
		return
	}
	if err := s.mqtt.AnnounceVolume(vol.Value, vol.Muted); err != nil {
		s.logger.Debug("announcing volume", "error", err)
	}
}
