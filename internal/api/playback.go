package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
)

// handleNowPlaying returns the device's now-playing document untouched.
// The shape varies wildly by source (TUNEIN, SPOTIFY, PRODUCT), so the
// raw form is more useful to callers than a lossy projection.
func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetNowPlaying(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// playbackStatus is the condensed view of the now-playing document.
type playbackStatus struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Track  string `json:"track,omitempty"`
}

// handlePlaybackStatus condenses now-playing into source, state and
// track metadata.
func (s *Server) handlePlaybackStatus(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	raw, err := bose.GetNowPlaying(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var doc struct {
		Source struct {
			SourceDisplayName string `json:"sourceDisplayName"`
		} `json:"source"`
		State struct {
			Status string `json:"status"`
		} `json:"state"`
		Metadata struct {
			Artist    string `json:"artist"`
			Album     string `json:"album"`
			TrackName string `json:"trackName"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		writeDomainError(w, bose.ErrInvalidResponse)
		return
	}

	writeJSON(w, http.StatusOK, playbackStatus{
		Source: doc.Source.SourceDisplayName,
		Status: doc.State.Status,
		Artist: doc.Metadata.Artist,
		Album:  doc.Metadata.Album,
		Track:  doc.Metadata.TrackName,
	})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.transport(w, r, bose.TransportPlay)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.transport(w, r, bose.TransportPause)
}

func (s *Server) handleSkipNext(w http.ResponseWriter, r *http.Request) {
	s.transport(w, r, bose.TransportSkipNext)
}

func (s *Server) handleSkipPrevious(w http.ResponseWriter, r *http.Request) {
	s.transport(w, r, bose.TransportSkipPrevious)
}

// transport sends a transport state change and echoes the state back.
func (s *Server) transport(w http.ResponseWriter, r *http.Request, state string) {
	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.TransportControl(r.Context(), ctrl, state); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  strings.ToLower(state),
	})
}

// handleSeek jumps to a position within the current track.
func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position *int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Position == nil || *req.Position < 0 {
		writeBadRequest(w, "position must be a non-negative number of seconds")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.Seek(r.Context(), ctrl, *req.Position); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"position": *req.Position,
	})
}

// handlePlayPreset starts playback of a stored preset slot (1 to 6).
func (s *Server) handlePlayPreset(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || slot < 1 || slot > 6 {
		writeBadRequest(w, "preset slot must be a number between 1 and 6")
		return
	}

	ctrl, ok := s.controller(w)
	if !ok {
		return
	}

	if err := bose.PlayPreset(r.Context(), ctrl, slot); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"preset": slot,
	})
}
