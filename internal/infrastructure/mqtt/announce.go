package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionEvent is published on session lifecycle changes.
type SessionEvent struct {
	Event     string `json:"event"` // "initialized" or "cleared"
	SessionID string `json:"session_id,omitempty"`
	DeviceID  string `json:"device_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// VolumeEvent is published after a successful volume change.
type VolumeEvent struct {
	Value     int    `json:"value"`
	Muted     bool   `json:"muted"`
	Timestamp string `json:"timestamp"`
}

// PowerEvent is published after a successful power state change.
type PowerEvent struct {
	State     string `json:"state"`
	Timestamp string `json:"timestamp"`
}

// AnnounceSession publishes a session lifecycle event.
//
// Events are not retained; the retained status topic already tells
// late subscribers whether the bridge is up.
func (c *Client) AnnounceSession(event, sessionID, deviceID string) error {
	return c.announce(c.topics.SessionEvent(), SessionEvent{
		Event:     event,
		SessionID: sessionID,
		DeviceID:  deviceID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// AnnounceVolume publishes a volume change event.
func (c *Client) AnnounceVolume(value int, muted bool) error {
	return c.announce(c.topics.VolumeEvent(), VolumeEvent{
		Value:     value,
		Muted:     muted,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// AnnouncePower publishes a power state change event.
func (c *Client) AnnouncePower(state string) error {
	return c.announce(c.topics.PowerEvent(), PowerEvent{
		State:     state,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// announce marshals an event and publishes it at the configured QoS.
func (c *Client) announce(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshaling event: %w", ErrPublishFailed, err)
	}
	return c.Publish(topic, payload, byte(c.cfg.QoS), false)
}
