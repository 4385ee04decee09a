// Package bose implements the client for Bose smart speakers and soundbars.
//
// There is no published Go library for this speaker line, so the package
// implements the two protocol legs itself: the cloud login that yields a
// control token, and the local websocket channel that carries control
// requests to the device.
//
// # Architecture
//
// A session is established in two steps:
//
//	Authenticate ─► cloud login ─► control token
//	Dial         ─► ws://host:8082 (subprotocol eco2) ─► *Speaker
//
// Requests and responses are JSON frames with a header and body. The
// header carries the resource path, method, reqID and token; responses
// mirror the reqID, which is how concurrent requests are matched to
// their answers over the single socket.
//
// # Key Responsibilities
//
//   - Cloud login and control token acquisition
//   - Websocket control channel with request/response correlation
//   - Typed operations for volume, playback, sources, power, grouping
//     and the various audio settings
//   - Dropping unsolicited notification frames (the bridge does not
//     consume the device event stream)
//
// # Usage
//
//	token, err := bose.Authenticate(ctx, username, password, bose.AuthConfig{})
//	if err != nil {
//	    return err
//	}
//	spk, err := bose.Dial(ctx, bose.SpeakerConfig{
//	    Host:     "192.168.1.50",
//	    DeviceID: deviceID,
//	    Token:    token,
//	})
//	if err != nil {
//	    return err
//	}
//	defer spk.Close()
//
//	vol, err := bose.GetVolume(ctx, spk)
//
// # Thread Safety
//
// All exported types are safe for concurrent use from multiple goroutines.
// Concurrent requests are multiplexed over the single websocket.
package bose
