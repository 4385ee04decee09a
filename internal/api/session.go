package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/config"
)

// initializeRequest is the body of POST /initialize. Every field is
// optional; missing fields fall back to the configured values.
type initializeRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	DeviceID string `json:"device_id"`
}

// handleInitialize authenticates against the cloud, dials the speaker,
// and caches the resulting session.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	creds := s.mergeCredentials(req)
	if missing := missingCredentials(creds); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, ErrCodeConfigIncomplete,
			"missing credentials: "+strings.Join(missing, ", "))
		return
	}

	sess, err := s.sessions.Initialize(r.Context(), creds)
	if err != nil {
		s.logger.Warn("initialization failed", "host", creds.Host, "error", err)
		if s.metrics != nil {
			s.metrics.WriteSessionEvent("init_failed", "")
		}
		writeDomainError(w, err)
		return
	}

	if s.mqtt != nil {
		if err := s.mqtt.AnnounceSession("initialized", sess.ID, sess.DeviceID); err != nil {
			s.logger.Warn("announcing session", "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.WriteSessionEvent("initialized", sess.DeviceID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "initialized",
		"device_id":  sess.DeviceID,
		"host":       sess.Host,
		"session_id": sess.ID,
	})
}

// handleDisconnect clears the cached session. Idempotent: disconnecting
// with no session is still a success.
func (s *Server) handleDisconnect(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Clear()

	if s.mqtt != nil {
		if err := s.mqtt.AnnounceSession("cleared", "", ""); err != nil {
			s.logger.Warn("announcing session", "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.WriteSessionEvent("cleared", "")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// handleDeviceID reports the device ID of the live session, falling back
// to the configured one when no session exists.
func (s *Server) handleDeviceID(w http.ResponseWriter, _ *http.Request) {
	if sess, err := s.sessions.Current(); err == nil {
		writeJSON(w, http.StatusOK, map[string]string{"device_id": sess.DeviceID})
		return
	}

	if s.device.DeviceID == "" {
		writeNotFound(w, "no device ID configured and no active session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"device_id": s.device.DeviceID})
}

// handleHealth returns the server health status. Never requires a session.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	sessionStatus := "not_initialized"
	if sess, err := s.sessions.Current(); err == nil {
		if sess.Connected() {
			sessionStatus = "connected"
		} else {
			sessionStatus = "disconnected"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        s.version,
		"session":        sessionStatus,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}

// mergeCredentials overlays request fields onto the configured values.
func (s *Server) mergeCredentials(req initializeRequest) config.Credentials {
	creds := config.Credentials{
		Username: req.Username,
		Password: req.Password,
		Host:     req.Host,
		DeviceID: req.DeviceID,
	}
	if creds.Username == "" {
		creds.Username = s.device.Username
	}
	if creds.Password == "" {
		creds.Password = s.device.Password
	}
	if creds.Host == "" {
		creds.Host = s.device.Host
	}
	if creds.DeviceID == "" {
		creds.DeviceID = s.device.DeviceID
	}
	return creds
}

// missingCredentials names the credential fields still empty after merging.
func missingCredentials(creds config.Credentials) []string {
	var missing []string
	if creds.Username == "" {
		missing = append(missing, "username")
	}
	if creds.Password == "" {
		missing = append(missing, "password")
	}
	if creds.Host == "" {
		missing = append(missing, "host")
	}
	if creds.DeviceID == "" {
		missing = append(missing, "device_id")
	}
	return missing
}

// controller resolves the live session's controller, answering 409 when
// no session exists.
func (s *Server) controller(w http.ResponseWriter) (bose.Controller, bool) {
	sess, err := s.sessions.Current()
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return sess.Controller(), true
}
