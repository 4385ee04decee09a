// Package mqtt provides the bridge's optional MQTT status announcer.
//
// This package manages:
//   - Connection to an MQTT broker with auto-reconnect
//   - Retained online/offline status publishing
//   - Session, volume, and power event announcements
//   - Last Will and Testament (LWT) for crash detection
//   - Connection health monitoring
//
// # Architecture
//
// The announcer is one-way: the bridge publishes, it never subscribes.
// Control of the speaker stays on the HTTP API; MQTT exists so home
// automation systems can observe the bridge without polling.
//
//	bridge ──publish──▶ MQTT broker ──▶ dashboards / automations
//
// Topics hang off a configurable base (default "bosebridge"):
//
//	bosebridge/status         retained online/offline + LWT
//	bosebridge/event/session  session initialized/cleared
//	bosebridge/event/volume   volume changes
//	bosebridge/event/power    power state changes
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.AnnounceSession("initialized", sessionID, deviceID)
//	client.AnnounceVolume(35, false)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Anonymous access is only for local development
//   - Payloads carry device IDs and volume levels, never credentials
package mqtt
