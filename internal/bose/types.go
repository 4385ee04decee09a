package bose

import "encoding/json"

// Transport states accepted by the transport control resource.
const (
	TransportPlay         = "PLAY"
	TransportPause        = "PAUSE"
	TransportSkipNext     = "SKIPNEXT"
	TransportSkipPrevious = "SKIPPREVIOUS"
)

// Power states reported and accepted by the power control resource.
const (
	PowerOn  = "ON"
	PowerOff = "OFF"
)

// Source identifiers for playback requests.
const (
	SourceProduct   = "PRODUCT"
	SourceBluetooth = "BLUETOOTH"

	// SourceAccountTV is the product source account for the TV input.
	SourceAccountTV = "TV"
)

// Volume is the speaker's volume state.
//
// Min and Max are the device's valid range; they vary by model and are
// the bounds relative volume changes clamp against.
type Volume struct {
	Value     int  `json:"value"`
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	DefaultOn int  `json:"defaultOn,omitempty"`
	Muted     bool `json:"muted"`
}

// PowerState is the speaker's power state.
type PowerState struct {
	Power string `json:"power"`
}

// PowerTimeouts controls the no-audio auto-off behaviour.
type PowerTimeouts struct {
	NoAudio bool `json:"noAudio"`
}

// CECSettings is the HDMI CEC mode.
type CECSettings struct {
	Mode string `json:"mode"`
}

// AudioSetting is a single named audio adjustment such as bass or treble.
type AudioSetting struct {
	Value int `json:"value"`
	Min   int `json:"min,omitempty"`
	Max   int `json:"max,omitempty"`
	Step  int `json:"step,omitempty"`
}

// AudioMode is the dialogue/audio processing mode.
type AudioMode struct {
	Value           string   `json:"value"`
	Persistence     string   `json:"persistence,omitempty"`
	SupportedValues []string `json:"supportedValues,omitempty"`
}

// DualMonoSetting selects the dual-mono audio channel.
type DualMonoSetting struct {
	Value string `json:"value"`
}

// RebroadcastLatency is the grouped-playback latency mode.
type RebroadcastLatency struct {
	Mode string `json:"mode"`
}

// Preset is one of the speaker's six preset slots.
type Preset struct {
	ID          int             `json:"id"`
	ContentItem json.RawMessage `json:"contentItem"`
}

// presetList is the presets resource payload.
type presetList struct {
	Presets []Preset `json:"presets"`
}

// groupProduct identifies a product in a grouping payload.
type groupProduct struct {
	ProductID string `json:"productId"`
}
