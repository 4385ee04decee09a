package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(s.metricsMiddleware)

	// Session lifecycle
	r.Post("/initialize", s.handleInitialize)
	r.Post("/disconnect", s.handleDisconnect)
	r.Get("/device-id", s.handleDeviceID)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	// Audio
	r.Route("/audio", func(r chi.Router) {
		r.Get("/volume", s.handleGetVolume)
		r.Put("/volume", s.handleSetVolume)
		r.Post("/volume/up", s.handleVolumeUp)
		r.Post("/volume/down", s.handleVolumeDown)
		r.Post("/volume/mute", s.handleVolumeMute)

		r.Get("/settings/{setting}", s.handleGetAudioSetting)
		r.Post("/settings/{setting}", s.handleSetAudioSetting)

		r.Get("/mode", s.handleGetAudioMode)
		r.Post("/mode", s.handleSetAudioMode)

		r.Get("/dual-mono", s.handleGetDualMono)
		r.Put("/dual-mono", s.handleSetDualMono)

		r.Get("/rebroadcast-latency", s.handleGetRebroadcastLatency)
		r.Put("/rebroadcast-latency", s.handleSetRebroadcastLatency)
	})

	// Playback and content
	r.Get("/content/now-playing", s.handleNowPlaying)
	r.Route("/playback", func(r chi.Router) {
		r.Get("/status", s.handlePlaybackStatus)
		r.Post("/play", s.handlePlay)
		r.Post("/pause", s.handlePause)
		r.Post("/skip-next", s.handleSkipNext)
		r.Post("/skip-previous", s.handleSkipPrevious)
		r.Post("/seek", s.handleSeek)
		r.Post("/preset/{n}", s.handlePlayPreset)
	})

	// Sources
	r.Route("/sources", func(r chi.Router) {
		r.Get("/", s.handleListSources)
		r.Post("/set", s.handleSetSource)
		r.Post("/tv", s.handleSourceTV)
		r.Post("/bluetooth", s.handleSourceBluetooth)
	})
	r.Get("/bluetooth/status", s.handleBluetoothStatus)

	// System and power
	r.Route("/system", func(r chi.Router) {
		r.Get("/info", s.handleSystemInfo)
		r.Get("/capabilities", s.handleCapabilities)
		r.Get("/timeout", s.handleGetSystemTimeout)
		r.Put("/timeout", s.handleSetSystemTimeout)
		r.Get("/product-settings", s.handleProductSettings)
	})
	r.Get("/power", s.handleGetPower)
	r.Post("/power", s.handleSetPower)
	r.Get("/cec", s.handleGetCEC)
	r.Put("/cec", s.handleSetCEC)
	r.Get("/network/status", s.handleNetworkStatus)
	r.Get("/accessories", s.handleGetAccessories)
	r.Put("/accessories", s.handleSetAccessories)
	r.Get("/battery", s.handleBattery)

	// Grouping
	r.Route("/groups", func(r chi.Router) {
		r.Get("/active", s.handleGetActiveGroups)
		r.Post("/active", s.handleCreateGroup)
		r.Delete("/active", s.handleDissolveGroups)
		r.Post("/add", s.handleAddToGroup)
		r.Post("/remove", s.handleRemoveFromGroup)
	})

	// Unknown routes still answer with the structured error body
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w, "route not found: "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"method "+r.Method+" not allowed for "+r.URL.Path)
	})

	return r
}
