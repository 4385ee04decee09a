package bose

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Typed operations over a Controller.
//
// Each function is one control channel round trip. Operations that return
// structured state decode the response body; informational resources whose
// shape varies by model and firmware are passed through as raw JSON.

// GetVolume reads the current volume state including the device's valid range.
func GetVolume(ctx context.Context, c Controller) (Volume, error) {
	var v Volume
	body, err := c.Request(ctx, http.MethodGet, resourceVolume, nil)
	if err != nil {
		return v, err
	}
	if err := decodeBody(body, &v); err != nil {
		return v, err
	}
	return v, nil
}

// SetVolume sets an absolute volume and returns the resulting state.
func SetVolume(ctx context.Context, c Controller, value int) (Volume, error) {
	var v Volume
	body, err := c.Request(ctx, http.MethodPut, resourceVolume, map[string]int{"value": value})
	if err != nil {
		return v, err
	}
	if len(body) == 0 {
		// Some firmware answers a set with an empty body; re-read.
		return GetVolume(ctx, c)
	}
	if err := decodeBody(body, &v); err != nil {
		return v, err
	}
	return v, nil
}

// SetMuted sets the mute flag and returns the resulting volume state.
func SetMuted(ctx context.Context, c Controller, muted bool) (Volume, error) {
	var v Volume
	body, err := c.Request(ctx, http.MethodPut, resourceVolume, map[string]bool{"muted": muted})
	if err != nil {
		return v, err
	}
	if len(body) == 0 {
		return GetVolume(ctx, c)
	}
	if err := decodeBody(body, &v); err != nil {
		return v, err
	}
	return v, nil
}

// GetNowPlaying reads the now-playing metadata.
func GetNowPlaying(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceNowPlaying, nil)
}

// TransportControl sends a transport state change (play, pause, skip).
func TransportControl(ctx context.Context, c Controller, state string) error {
	_, err := c.Request(ctx, http.MethodPost, resourceTransportControl, map[string]string{"state": state})
	return err
}

// Seek jumps to a position, in seconds, within the current track.
func Seek(ctx context.Context, c Controller, seconds int) error {
	_, err := c.Request(ctx, http.MethodPost, resourcePosition, map[string]int{"position": seconds})
	return err
}

// GetPresets reads the preset slots.
func GetPresets(ctx context.Context, c Controller) ([]Preset, error) {
	body, err := c.Request(ctx, http.MethodGet, resourcePresets, nil)
	if err != nil {
		return nil, err
	}
	var pl presetList
	if err := decodeBody(body, &pl); err != nil {
		return nil, err
	}
	return pl.Presets, nil
}

// PlayPreset recalls a preset slot by starting its content item.
func PlayPreset(ctx context.Context, c Controller, slot int) error {
	presets, err := GetPresets(ctx, c)
	if err != nil {
		return err
	}
	for _, p := range presets {
		if p.ID == slot && len(p.ContentItem) > 0 {
			_, err := c.Request(ctx, http.MethodPost, resourcePlaybackRequest, p.ContentItem)
			return err
		}
	}
	return fmt.Errorf("%w: slot %d", ErrPresetNotSet, slot)
}

// GetSources lists the selectable sources.
func GetSources(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceSources, nil)
}

// SetSource switches playback to a source.
func SetSource(ctx context.Context, c Controller, source, sourceAccount string) error {
	payload := map[string]string{"source": source}
	if sourceAccount != "" {
		payload["sourceAccount"] = sourceAccount
	}
	_, err := c.Request(ctx, http.MethodPost, resourcePlaybackRequest, payload)
	return err
}

// SwitchToTV switches to the TV input.
func SwitchToTV(ctx context.Context, c Controller) error {
	return SetSource(ctx, c, SourceProduct, SourceAccountTV)
}

// SwitchToBluetooth switches to the Bluetooth source.
func SwitchToBluetooth(ctx context.Context, c Controller) error {
	return SetSource(ctx, c, SourceBluetooth, "")
}

// GetSystemInfo reads device information (name, type, firmware).
func GetSystemInfo(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceSystemInfo, nil)
}

// GetCapabilities reads the capability catalogue.
func GetCapabilities(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceCapabilities, nil)
}

// GetPowerState reads the power state.
func GetPowerState(ctx context.Context, c Controller) (PowerState, error) {
	var p PowerState
	body, err := c.Request(ctx, http.MethodGet, resourcePowerControl, nil)
	if err != nil {
		return p, err
	}
	if err := decodeBody(body, &p); err != nil {
		return p, err
	}
	return p, nil
}

// SetPowerState sets the power state to PowerOn or PowerOff.
func SetPowerState(ctx context.Context, c Controller, state string) error {
	_, err := c.Request(ctx, http.MethodPost, resourcePowerControl, PowerState{Power: state})
	return err
}

// GetAudioSetting reads a named audio setting such as bass or treble.
// The name is the bare setting name without the /audio/ prefix.
func GetAudioSetting(ctx context.Context, c Controller, name string) (AudioSetting, error) {
	var a AudioSetting
	body, err := c.Request(ctx, http.MethodGet, audioSettingPrefix+name, nil)
	if err != nil {
		return a, err
	}
	if err := decodeBody(body, &a); err != nil {
		return a, err
	}
	return a, nil
}

// SetAudioSetting adjusts a named audio setting and returns the new state.
func SetAudioSetting(ctx context.Context, c Controller, name string, value int) (AudioSetting, error) {
	var a AudioSetting
	body, err := c.Request(ctx, http.MethodPut, audioSettingPrefix+name, map[string]int{"value": value})
	if err != nil {
		return a, err
	}
	if len(body) == 0 {
		return GetAudioSetting(ctx, c, name)
	}
	if err := decodeBody(body, &a); err != nil {
		return a, err
	}
	return a, nil
}

// GetAudioMode reads the dialogue/audio processing mode.
func GetAudioMode(ctx context.Context, c Controller) (AudioMode, error) {
	var m AudioMode
	body, err := c.Request(ctx, http.MethodGet, resourceAudioMode, nil)
	if err != nil {
		return m, err
	}
	if err := decodeBody(body, &m); err != nil {
		return m, err
	}
	return m, nil
}

// SetAudioMode selects the dialogue/audio processing mode and returns
// the new state.
func SetAudioMode(ctx context.Context, c Controller, mode string) (AudioMode, error) {
	var m AudioMode
	body, err := c.Request(ctx, http.MethodPut, resourceAudioMode, map[string]string{"value": mode})
	if err != nil {
		return m, err
	}
	if len(body) == 0 {
		return GetAudioMode(ctx, c)
	}
	if err := decodeBody(body, &m); err != nil {
		return m, err
	}
	return m, nil
}

// GetBluetoothStatus reads the Bluetooth source status.
func GetBluetoothStatus(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceBluetoothStatus, nil)
}

// GetAccessories reads the paired accessory state (subwoofers, surrounds).
func GetAccessories(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceAccessories, nil)
}

// SetAccessories enables or disables the paired accessory groups.
func SetAccessories(ctx context.Context, c Controller, subs, rears bool) (json.RawMessage, error) {
	payload := map[string]map[string]bool{
		"enabled": {"subs": subs, "rears": rears},
	}
	return c.Request(ctx, http.MethodPut, resourceAccessories, payload)
}

// GetBattery reads the battery status of portable models.
func GetBattery(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceBattery, nil)
}

// GetDualMono reads the dual-mono channel selection.
func GetDualMono(ctx context.Context, c Controller) (DualMonoSetting, error) {
	var d DualMonoSetting
	body, err := c.Request(ctx, http.MethodGet, resourceDualMono, nil)
	if err != nil {
		return d, err
	}
	if err := decodeBody(body, &d); err != nil {
		return d, err
	}
	return d, nil
}

// SetDualMono sets the dual-mono channel selection.
func SetDualMono(ctx context.Context, c Controller, value string) error {
	_, err := c.Request(ctx, http.MethodPut, resourceDualMono, DualMonoSetting{Value: value})
	return err
}

// GetRebroadcastLatency reads the grouped-playback latency mode.
func GetRebroadcastLatency(ctx context.Context, c Controller) (RebroadcastLatency, error) {
	var r RebroadcastLatency
	body, err := c.Request(ctx, http.MethodGet, resourceRebroadcastLatency, nil)
	if err != nil {
		return r, err
	}
	if err := decodeBody(body, &r); err != nil {
		return r, err
	}
	return r, nil
}

// SetRebroadcastLatency sets the grouped-playback latency mode.
func SetRebroadcastLatency(ctx context.Context, c Controller, mode string) error {
	_, err := c.Request(ctx, http.MethodPut, resourceRebroadcastLatency, RebroadcastLatency{Mode: mode})
	return err
}

// GetSystemTimeout reads the no-audio auto-off setting.
func GetSystemTimeout(ctx context.Context, c Controller) (PowerTimeouts, error) {
	var t PowerTimeouts
	body, err := c.Request(ctx, http.MethodGet, resourcePowerTimeouts, nil)
	if err != nil {
		return t, err
	}
	if err := decodeBody(body, &t); err != nil {
		return t, err
	}
	return t, nil
}

// SetSystemTimeout sets the no-audio auto-off setting.
func SetSystemTimeout(ctx context.Context, c Controller, noAudio bool) error {
	_, err := c.Request(ctx, http.MethodPut, resourcePowerTimeouts, PowerTimeouts{NoAudio: noAudio})
	return err
}

// GetCEC reads the HDMI CEC mode.
func GetCEC(ctx context.Context, c Controller) (CECSettings, error) {
	var s CECSettings
	body, err := c.Request(ctx, http.MethodGet, resourceCEC, nil)
	if err != nil {
		return s, err
	}
	if err := decodeBody(body, &s); err != nil {
		return s, err
	}
	return s, nil
}

// SetCEC sets the HDMI CEC mode.
func SetCEC(ctx context.Context, c Controller, mode string) error {
	_, err := c.Request(ctx, http.MethodPut, resourceCEC, CECSettings{Mode: mode})
	return err
}

// GetProductSettings reads the full product settings blob.
func GetProductSettings(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceProductSettings, nil)
}

// GetNetworkStatus reads the network interface status.
func GetNetworkStatus(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceNetworkStatus, nil)
}

// GetActiveGroups reads the active multi-room group, if any.
func GetActiveGroups(ctx context.Context, c Controller) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, resourceActiveGroups, nil)
}

// CreateGroup forms a multi-room group with the given product IDs.
func CreateGroup(ctx context.Context, c Controller, productIDs []string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, resourceActiveGroups, groupPayload("products", productIDs))
}

// AddToGroup adds products to the active group.
func AddToGroup(ctx context.Context, c Controller, productIDs []string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, resourceActiveGroups, groupPayload("addProducts", productIDs))
}

// RemoveFromGroup removes products from the active group.
func RemoveFromGroup(ctx context.Context, c Controller, productIDs []string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, resourceActiveGroups, groupPayload("removeProducts", productIDs))
}

// DissolveGroups dissolves the active group.
func DissolveGroups(ctx context.Context, c Controller) error {
	_, err := c.Request(ctx, http.MethodDelete, resourceActiveGroups, nil)
	return err
}

// groupPayload builds a grouping body under the given key.
func groupPayload(key string, productIDs []string) map[string][]groupProduct {
	products := make([]groupProduct, 0, len(productIDs))
	for _, id := range productIDs {
		products = append(products, groupProduct{ProductID: id})
	}
	return map[string][]groupProduct{key: products}
}

// decodeBody unmarshals a response body, wrapping decode failures.
func decodeBody(body json.RawMessage, v any) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}
