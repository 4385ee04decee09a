package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
)

// Brokerless tests. Everything here exercises validation and topic/payload
// construction; connection behaviour lives in integration_test.go and
// requires a running broker.

// =============================================================================
// Validation Tests
// =============================================================================

func TestPublishEmptyTopic(t *testing.T) {
	client := &Client{}

	err := client.Publish("", []byte("test"), 1, false)
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}
}

func TestPublishInvalidQoS(t *testing.T) {
	client := &Client{}

	err := client.Publish("test/topic", []byte("test"), 3, false)
	if !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
	}
}

func TestPublishOversizedPayload(t *testing.T) {
	client := &Client{}

	payload := make([]byte, maxPayloadSize+1)
	err := client.Publish("test/topic", payload, 1, false)
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
}

func TestPublishDisconnected(t *testing.T) {
	client := &Client{}

	err := client.Publish("test/topic", []byte("test"), 1, false)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name: "Status",
			builder: func() string {
				return Topics{Base: "bosebridge"}.Status()
			},
			expected: "bosebridge/status",
		},
		{
			name: "SessionEvent",
			builder: func() string {
				return Topics{Base: "bosebridge"}.SessionEvent()
			},
			expected: "bosebridge/event/session",
		},
		{
			name: "VolumeEvent",
			builder: func() string {
				return Topics{Base: "bosebridge"}.VolumeEvent()
			},
			expected: "bosebridge/event/volume",
		},
		{
			name: "PowerEvent",
			builder: func() string {
				return Topics{Base: "bosebridge"}.PowerEvent()
			},
			expected: "bosebridge/event/power",
		},
		{
			name: "Event",
			builder: func() string {
				return Topics{Base: "bosebridge"}.Event("custom")
			},
			expected: "bosebridge/event/custom",
		},
		{
			name: "AllEvents",
			builder: func() string {
				return Topics{Base: "bosebridge"}.AllEvents()
			},
			expected: "bosebridge/event/+",
		},
		{
			name: "DefaultBase",
			builder: func() string {
				return Topics{}.Status()
			},
			expected: "bosebridge/status",
		},
		{
			name: "CustomBase",
			builder: func() string {
				return Topics{Base: "home/av/soundbar"}.VolumeEvent()
			},
			expected: "home/av/soundbar/event/volume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}

// =============================================================================
// Payload Tests
// =============================================================================

func TestStatusPayloads(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus string
		wantReason string
	}{
		{
			name:       "Online",
			payload:    buildOnlinePayload("bosebridge-test"),
			wantStatus: "online",
		},
		{
			name:       "Offline",
			payload:    buildOfflinePayload("bosebridge-test"),
			wantStatus: "offline",
			wantReason: "graceful_shutdown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Status    string `json:"status"`
				ClientID  string `json:"client_id"`
				Reason    string `json:"reason"`
				Timestamp string `json:"timestamp"`
			}
			if err := json.Unmarshal([]byte(tt.payload), &got); err != nil {
				t.Fatalf("payload is not valid JSON: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.ClientID != "bosebridge-test" {
				t.Errorf("client_id = %q, want %q", got.ClientID, "bosebridge-test")
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Timestamp == "" {
				t.Error("expected timestamp to be set")
			}
		})
	}
}

func TestAnnounceDisconnected(t *testing.T) {
	// Announcements on a disconnected client fail cleanly rather than block.
	client := &Client{}

	if err := client.AnnounceSession("initialized", "sess-1", "DEVICE01"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("AnnounceSession() error = %v, want ErrNotConnected", err)
	}
	if err := client.AnnounceVolume(30, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("AnnounceVolume() error = %v, want ErrNotConnected", err)
	}
	if err := client.AnnouncePower("ON"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("AnnouncePower() error = %v, want ErrNotConnected", err)
	}
}
