package mqtt

import "fmt"

// defaultTopicBase is used when no topic base is configured.
const defaultTopicBase = "bosebridge"

// Topics provides builders for the bridge's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
// All topics hang off a single configurable base:
//
//	topics := mqtt.Topics{Base: "bosebridge"}
//	topics.Status()       // "bosebridge/status"
//	topics.SessionEvent() // "bosebridge/event/session"
type Topics struct {
	// Base is the topic prefix. Empty means defaultTopicBase.
	Base string
}

func (t Topics) base() string {
	if t.Base == "" {
		return defaultTopicBase
	}
	return t.Base
}

// Status returns the retained bridge status topic (online/offline + LWT).
//
// Example: bosebridge/status
func (t Topics) Status() string {
	return fmt.Sprintf("%s/status", t.base())
}

// Event returns the topic for a named bridge event.
//
// Example: bosebridge/event/session
func (t Topics) Event(kind string) string {
	return fmt.Sprintf("%s/event/%s", t.base(), kind)
}

// SessionEvent returns the topic for session lifecycle events
// (initialized, cleared).
//
// Example: bosebridge/event/session
func (t Topics) SessionEvent() string {
	return t.Event("session")
}

// VolumeEvent returns the topic for volume change events.
//
// Example: bosebridge/event/volume
func (t Topics) VolumeEvent() string {
	return t.Event("volume")
}

// PowerEvent returns the topic for power state change events.
//
// Example: bosebridge/event/power
func (t Topics) PowerEvent() string {
	return t.Event("power")
}

// AllEvents returns a pattern matching every bridge event.
//
// Pattern: bosebridge/event/+
func (t Topics) AllEvents() string {
	return fmt.Sprintf("%s/event/+", t.base())
}
