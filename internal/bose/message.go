package bose

import "encoding/json"

// Frame message types on the control channel.
const (
	msgTypeRequest  = "REQUEST"
	msgTypeResponse = "RESPONSE"

	// protocolVersion is the control protocol version sent in every header.
	protocolVersion = 1
)

// Resources exposed by the speaker's control channel.
const (
	resourceVolume             = "/audio/volume"
	resourceNowPlaying         = "/content/nowPlaying"
	resourceTransportControl   = "/content/transportControl"
	resourcePlaybackRequest    = "/content/playbackRequest"
	resourcePosition           = "/content/position"
	resourceSystemInfo         = "/system/info"
	resourceCapabilities       = "/system/capabilities"
	resourcePowerControl       = "/system/power/control"
	resourcePowerTimeouts      = "/system/power/timeouts"
	resourceSources            = "/system/sources"
	resourcePresets            = "/system/presets"
	resourceProductSettings    = "/system/productSettings"
	resourceBattery            = "/system/battery"
	resourceBluetoothStatus    = "/bluetooth/source/status"
	resourceAccessories        = "/accessories"
	resourceAudioMode          = "/audio/mode"
	resourceDualMono           = "/audio/dualMonoSelect"
	resourceRebroadcastLatency = "/audio/rebroadcastLatency/mode"
	resourceCEC                = "/cec"
	resourceNetworkStatus      = "/network/status"
	resourceActiveGroups       = "/grouping/activeGroups"

	// audioSettingPrefix is the resource prefix for named audio settings
	// such as /audio/bass and /audio/treble.
	audioSettingPrefix = "/audio/"
)

// frameHeader is the header portion of a control channel frame.
//
// Every request carries the control token; responses mirror the reqID of
// the request they answer. Frames with msgtype other than RESPONSE, or
// with an unknown reqID, are unsolicited notifications.
type frameHeader struct {
	Device   string `json:"device,omitempty"`
	Resource string `json:"resource"`
	Method   string `json:"method"`
	MsgType  string `json:"msgtype"`
	ReqID    int    `json:"reqID"`
	Version  int    `json:"version"`
	Status   int    `json:"status,omitempty"`
	Token    string `json:"token,omitempty"`
}

// frame is a single JSON message on the control channel.
type frame struct {
	Header frameHeader     `json:"header"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// deviceError is the error shape some firmware versions place in the body
// of a failed response.
type deviceError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorMessage extracts a human-readable failure description from a
// response body, falling back to the raw body when the shape is unknown.
func errorMessage(body json.RawMessage) string {
	if len(body) == 0 {
		return ""
	}
	var de deviceError
	if err := json.Unmarshal(body, &de); err == nil && de.Error.Message != "" {
		return de.Error.Message
	}
	const maxRaw = 200
	raw := string(body)
	if len(raw) > maxRaw {
		raw = raw[:maxRaw]
	}
	return raw
}
