// Package api implements the bridge's HTTP REST surface.
//
// This package provides:
//   - Session lifecycle endpoints (initialize, disconnect, health)
//   - Device control endpoints (audio, playback, sources, system, grouping)
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - Structured error bodies with stable machine-readable codes
//
// # Architecture
//
// Every device endpoint follows the same shape: resolve the session from
// the store, translate the HTTP request into one controller call, and
// translate the result back to JSON. Handlers never cache device state
// between requests; the speaker is always the source of truth.
//
//	HTTP request ─▶ session.Store.Current ─▶ bose operation ─▶ JSON response
//
// A request arriving before any successful initialization gets a 409
// with code "not_initialized". No retries, no queueing.
//
// # Graceful Degradation
//
// The MQTT announcer and the metrics sink are both optional. With
// neither configured the API is fully functional; announcements and
// latency points are simply skipped.
package api
