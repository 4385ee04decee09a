package bose

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
)

// recordedRequest is one call seen by the fake controller.
type recordedRequest struct {
	Method   string
	Resource string
	Body     json.RawMessage
}

// fakeController answers requests from a canned response table keyed by
// "METHOD resource". Unknown requests answer with an empty body.
type fakeController struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage
	errs      map[string]error
	requests  []recordedRequest
}

func newFakeController() *fakeController {
	return &fakeController{
		responses: make(map[string]json.RawMessage),
		errs:      make(map[string]error),
	}
}

func (f *fakeController) set(method, resource, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+resource] = json.RawMessage(body)
}

func (f *fakeController) fail(method, resource string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method+" "+resource] = err
}

func (f *fakeController) DeviceID() string { return "FAKEDEVICE01" }

func (f *fakeController) IsConnected() bool { return true }

func (f *fakeController) Close() error { return nil }

func (f *fakeController) Request(_ context.Context, method, resource string, body any) (json.RawMessage, error) {
	var encoded json.RawMessage
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		encoded = data
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{Method: method, Resource: resource, Body: encoded})

	key := method + " " + resource
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.responses[key], nil
}

func (f *fakeController) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest{}, f.requests...)
}

func (f *fakeController) last() recordedRequest {
	reqs := f.recorded()
	if len(reqs) == 0 {
		return recordedRequest{}
	}
	return reqs[len(reqs)-1]
}

// ─── Volume ─────────────────────────────────────────────────────────────────

func TestGetVolume(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodGet, resourceVolume, `{"value":40,"min":10,"max":70,"muted":true,"defaultOn":30}`)

	v, err := GetVolume(context.Background(), fake)
	if err != nil {
		t.Fatalf("GetVolume() error: %v", err)
	}

	if v.Value != 40 || v.Min != 10 || v.Max != 70 || !v.Muted {
		t.Errorf("GetVolume() = %+v, want value 40 min 10 max 70 muted", v)
	}
}

func TestSetVolume(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodPut, resourceVolume, `{"value":55,"min":0,"max":100,"muted":false}`)

	v, err := SetVolume(context.Background(), fake, 55)
	if err != nil {
		t.Fatalf("SetVolume() error: %v", err)
	}
	if v.Value != 55 {
		t.Errorf("SetVolume() value = %d, want 55", v.Value)
	}

	last := fake.last()
	if last.Method != http.MethodPut || last.Resource != resourceVolume {
		t.Errorf("sent %s %s, want PUT %s", last.Method, last.Resource, resourceVolume)
	}
	if string(last.Body) != `{"value":55}` {
		t.Errorf("sent body %s, want {\"value\":55}", last.Body)
	}
}

func TestSetVolume_EmptyResponseRereads(t *testing.T) {
	fake := newFakeController()
	// PUT answers with no body; the operation re-reads the state.
	fake.set(http.MethodGet, resourceVolume, `{"value":60,"min":0,"max":100,"muted":false}`)

	v, err := SetVolume(context.Background(), fake, 60)
	if err != nil {
		t.Fatalf("SetVolume() error: %v", err)
	}
	if v.Value != 60 {
		t.Errorf("SetVolume() value = %d, want 60 from re-read", v.Value)
	}

	reqs := fake.recorded()
	if len(reqs) != 2 {
		t.Fatalf("recorded %d requests, want PUT then GET", len(reqs))
	}
	if reqs[0].Method != http.MethodPut || reqs[1].Method != http.MethodGet {
		t.Errorf("requests = %s, %s; want PUT then GET", reqs[0].Method, reqs[1].Method)
	}
}

func TestSetMuted(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodPut, resourceVolume, `{"value":40,"min":0,"max":100,"muted":true}`)

	v, err := SetMuted(context.Background(), fake, true)
	if err != nil {
		t.Fatalf("SetMuted() error: %v", err)
	}
	if !v.Muted {
		t.Error("SetMuted() muted = false, want true")
	}
	if string(fake.last().Body) != `{"muted":true}` {
		t.Errorf("sent body %s, want {\"muted\":true}", fake.last().Body)
	}
}

func TestGetVolume_PropagatesError(t *testing.T) {
	fake := newFakeController()
	fake.fail(http.MethodGet, resourceVolume, ErrNotConnected)

	_, err := GetVolume(context.Background(), fake)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("GetVolume() = %v, want ErrNotConnected", err)
	}
}

// ─── Playback ───────────────────────────────────────────────────────────────

func TestTransportControl(t *testing.T) {
	fake := newFakeController()

	if err := TransportControl(context.Background(), fake, TransportPlay); err != nil {
		t.Fatalf("TransportControl() error: %v", err)
	}

	last := fake.last()
	if last.Method != http.MethodPost || last.Resource != resourceTransportControl {
		t.Errorf("sent %s %s, want POST %s", last.Method, last.Resource, resourceTransportControl)
	}
	if string(last.Body) != `{"state":"PLAY"}` {
		t.Errorf("sent body %s, want {\"state\":\"PLAY\"}", last.Body)
	}
}

func TestSeek(t *testing.T) {
	fake := newFakeController()

	if err := Seek(context.Background(), fake, 95); err != nil {
		t.Fatalf("Seek() error: %v", err)
	}

	last := fake.last()
	if last.Resource != resourcePosition {
		t.Errorf("resource = %s, want %s", last.Resource, resourcePosition)
	}
	if string(last.Body) != `{"position":95}` {
		t.Errorf("sent body %s, want {\"position\":95}", last.Body)
	}
}

func TestPlayPreset(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodGet, resourcePresets,
		`{"presets":[{"id":1,"contentItem":{"source":"TUNEIN","location":"s12345"}},{"id":3,"contentItem":{"source":"SPOTIFY","location":"playlist"}}]}`)

	if err := PlayPreset(context.Background(), fake, 3); err != nil {
		t.Fatalf("PlayPreset() error: %v", err)
	}

	last := fake.last()
	if last.Method != http.MethodPost || last.Resource != resourcePlaybackRequest {
		t.Errorf("sent %s %s, want POST %s", last.Method, last.Resource, resourcePlaybackRequest)
	}

	var item map[string]string
	if err := json.Unmarshal(last.Body, &item); err != nil {
		t.Fatalf("unmarshal playback request: %v", err)
	}
	if item["source"] != "SPOTIFY" {
		t.Errorf("playback source = %q, want SPOTIFY", item["source"])
	}
}

func TestPlayPreset_EmptySlot(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodGet, resourcePresets, `{"presets":[{"id":1,"contentItem":{"source":"TUNEIN"}}]}`)

	err := PlayPreset(context.Background(), fake, 5)
	if !errors.Is(err, ErrPresetNotSet) {
		t.Errorf("PlayPreset() = %v, want ErrPresetNotSet", err)
	}
}

// ─── Sources ────────────────────────────────────────────────────────────────

func TestSetSource(t *testing.T) {
	fake := newFakeController()

	if err := SetSource(context.Background(), fake, "SPOTIFY", "account-1"); err != nil {
		t.Fatalf("SetSource() error: %v", err)
	}

	var body map[string]string
	if err := json.Unmarshal(fake.last().Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["source"] != "SPOTIFY" || body["sourceAccount"] != "account-1" {
		t.Errorf("body = %v, want source SPOTIFY account account-1", body)
	}
}

func TestSwitchToTV(t *testing.T) {
	fake := newFakeController()

	if err := SwitchToTV(context.Background(), fake); err != nil {
		t.Fatalf("SwitchToTV() error: %v", err)
	}

	var body map[string]string
	if err := json.Unmarshal(fake.last().Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["source"] != SourceProduct || body["sourceAccount"] != SourceAccountTV {
		t.Errorf("body = %v, want the TV product source", body)
	}
}

func TestSwitchToBluetooth(t *testing.T) {
	fake := newFakeController()

	if err := SwitchToBluetooth(context.Background(), fake); err != nil {
		t.Fatalf("SwitchToBluetooth() error: %v", err)
	}

	var body map[string]string
	if err := json.Unmarshal(fake.last().Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["source"] != SourceBluetooth {
		t.Errorf("body = %v, want the bluetooth source", body)
	}
	if _, ok := body["sourceAccount"]; ok {
		t.Error("bluetooth switch should not carry a sourceAccount")
	}
}

// ─── Power and settings ─────────────────────────────────────────────────────

func TestPowerState(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodGet, resourcePowerControl, `{"power":"ON"}`)

	p, err := GetPowerState(context.Background(), fake)
	if err != nil {
		t.Fatalf("GetPowerState() error: %v", err)
	}
	if p.Power != PowerOn {
		t.Errorf("power = %q, want ON", p.Power)
	}

	if err := SetPowerState(context.Background(), fake, PowerOff); err != nil {
		t.Fatalf("SetPowerState() error: %v", err)
	}
	if string(fake.last().Body) != `{"power":"OFF"}` {
		t.Errorf("sent body %s, want {\"power\":\"OFF\"}", fake.last().Body)
	}
}

func TestAudioSettings(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodGet, "/audio/bass", `{"value":-2,"min":-9,"max":9,"step":1}`)
	fake.set(http.MethodPut, "/audio/treble", `{"value":4,"min":-9,"max":9,"step":1}`)

	bass, err := GetAudioSetting(context.Background(), fake, "bass")
	if err != nil {
		t.Fatalf("GetAudioSetting() error: %v", err)
	}
	if bass.Value != -2 || bass.Min != -9 {
		t.Errorf("bass = %+v, want value -2 min -9", bass)
	}

	treble, err := SetAudioSetting(context.Background(), fake, "treble", 4)
	if err != nil {
		t.Fatalf("SetAudioSetting() error: %v", err)
	}
	if treble.Value != 4 {
		t.Errorf("treble = %+v, want value 4", treble)
	}
	if got := fake.last().Resource; got != "/audio/treble" {
		t.Errorf("resource = %q, want /audio/treble", got)
	}
}

func TestSystemTimeout(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodGet, resourcePowerTimeouts, `{"noAudio":true}`)

	timeouts, err := GetSystemTimeout(context.Background(), fake)
	if err != nil {
		t.Fatalf("GetSystemTimeout() error: %v", err)
	}
	if !timeouts.NoAudio {
		t.Error("NoAudio = false, want true")
	}

	if err := SetSystemTimeout(context.Background(), fake, false); err != nil {
		t.Fatalf("SetSystemTimeout() error: %v", err)
	}
	if string(fake.last().Body) != `{"noAudio":false}` {
		t.Errorf("sent body %s, want {\"noAudio\":false}", fake.last().Body)
	}
}

func TestAccessories(t *testing.T) {
	fake := newFakeController()

	if _, err := SetAccessories(context.Background(), fake, true, false); err != nil {
		t.Fatalf("SetAccessories() error: %v", err)
	}

	var body map[string]map[string]bool
	if err := json.Unmarshal(fake.last().Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !body["enabled"]["subs"] || body["enabled"]["rears"] {
		t.Errorf("body = %v, want subs on rears off", body)
	}
}

// ─── Grouping ───────────────────────────────────────────────────────────────

func TestGrouping(t *testing.T) {
	fake := newFakeController()

	tests := []struct {
		name     string
		call     func() error
		wantKey  string
		wantVerb string
	}{
		{
			name: "create",
			call: func() error {
				_, err := CreateGroup(context.Background(), fake, []string{"A", "B"})
				return err
			},
			wantKey:  "products",
			wantVerb: http.MethodPost,
		},
		{
			name: "add",
			call: func() error {
				_, err := AddToGroup(context.Background(), fake, []string{"C"})
				return err
			},
			wantKey:  "addProducts",
			wantVerb: http.MethodPut,
		},
		{
			name: "remove",
			call: func() error {
				_, err := RemoveFromGroup(context.Background(), fake, []string{"B"})
				return err
			},
			wantKey:  "removeProducts",
			wantVerb: http.MethodPut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("call error: %v", err)
			}

			last := fake.last()
			if last.Method != tt.wantVerb {
				t.Errorf("method = %s, want %s", last.Method, tt.wantVerb)
			}

			var body map[string][]groupProduct
			if err := json.Unmarshal(last.Body, &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if _, ok := body[tt.wantKey]; !ok {
				t.Errorf("body %s missing key %q", last.Body, tt.wantKey)
			}
		})
	}

	if err := DissolveGroups(context.Background(), fake); err != nil {
		t.Fatalf("DissolveGroups() error: %v", err)
	}
	if fake.last().Method != http.MethodDelete {
		t.Errorf("dissolve method = %s, want DELETE", fake.last().Method)
	}
}

// ─── Decoding ───────────────────────────────────────────────────────────────

func TestDecodeBody_Malformed(t *testing.T) {
	fake := newFakeController()
	fake.set(http.MethodGet, resourceVolume, `{"value":"loud"}`)

	_, err := GetVolume(context.Background(), fake)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("GetVolume() = %v, want ErrInvalidResponse", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "structured error",
			body: `{"error":{"code":9,"message":"out of range"}}`,
			want: "out of range",
		},
		{
			name: "unknown shape falls back to raw",
			body: `{"weird":true}`,
			want: `{"weird":true}`,
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(json.RawMessage(tt.body))
			if got != tt.want {
				t.Errorf("errorMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestErrorMessage_TruncatesLongBodies(t *testing.T) {
	long := `{"payload":"` + strings.Repeat("x", 400) + `"}`
	got := errorMessage(json.RawMessage(long))
	if len(got) > 200 {
		t.Errorf("errorMessage() returned %d bytes, want at most 200", len(got))
	}
}
