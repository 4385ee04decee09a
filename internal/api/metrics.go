package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	Session       SessionMetrics  `json:"session"`
	Speaker       *SpeakerMetrics `json:"speaker,omitempty"`
	MQTT          *MQTTMetrics    `json:"mqtt,omitempty"`
	InfluxDB      *InfluxMetrics  `json:"influxdb,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// SessionMetrics contains session cache statistics.
type SessionMetrics struct {
	State     string `json:"state"`
	SessionID string `json:"session_id,omitempty"`
	DeviceID  string `json:"device_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SpeakerMetrics contains device connection statistics.
type SpeakerMetrics struct {
	Connected     bool   `json:"connected"`
	RequestsTx    uint64 `json:"requests_tx"`
	ResponsesRx   uint64 `json:"responses_rx"`
	UnsolicitedRx uint64 `json:"unsolicited_rx"`
	ErrorsTotal   uint64 `json:"errors_total"`
	LastActivity  string `json:"last_activity"`
}

// MQTTMetrics contains MQTT announcer statistics.
type MQTTMetrics struct {
	Connected bool `json:"connected"`
}

// InfluxMetrics contains metrics sink statistics.
type InfluxMetrics struct {
	Connected bool `json:"connected"`
}

// handleMetrics returns comprehensive system metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	// Collect runtime stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// Build metrics response
	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Session: SessionMetrics{State: "not_initialized"},
	}

	// Session cache state
	if sess, err := s.sessions.Current(); err == nil {
		metrics.Session = SessionMetrics{
			State:     "disconnected",
			SessionID: sess.ID,
			DeviceID:  sess.DeviceID,
			CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		}
		if sess.Connected() {
			metrics.Session.State = "connected"
		}

		// Transport counters, available on the production speaker client
		if spk, ok := sess.Controller().(*bose.Speaker); ok {
			stats := spk.Stats()
			metrics.Speaker = &SpeakerMetrics{
				Connected:     stats.Connected,
				RequestsTx:    stats.RequestsTx,
				ResponsesRx:   stats.ResponsesRx,
				UnsolicitedRx: stats.UnsolicitedRx,
				ErrorsTotal:   stats.ErrorsTotal,
				LastActivity:  stats.LastActivity.UTC().Format(time.RFC3339),
			}
		}
	}

	// MQTT metrics (if available)
	if s.mqtt != nil {
		metrics.MQTT = &MQTTMetrics{Connected: s.mqtt.IsConnected()}
	}

	// InfluxDB metrics (if available)
	if s.metrics != nil {
		metrics.InfluxDB = &InfluxMetrics{Connected: s.metrics.IsConnected()}
	}

	writeJSON(w, http.StatusOK, metrics)
}
