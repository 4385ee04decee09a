package bose

import "errors"

// Domain errors for the bose package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, bose.ErrAuthFailed) {
//	    // handle rejected credentials
//	}
var (
	// ErrAuthFailed is returned when the cloud login rejects the
	// account credentials.
	ErrAuthFailed = errors.New("bose: authentication failed")

	// ErrCloudUnreachable is returned when the cloud login cannot be
	// reached or returns an unexpected response.
	ErrCloudUnreachable = errors.New("bose: cloud unreachable")

	// ErrConnectFailed is returned when the websocket connection to the
	// speaker cannot be established.
	ErrConnectFailed = errors.New("bose: connection to speaker failed")

	// ErrNotConnected is returned when an operation requires a connection
	// but the speaker channel is closed.
	ErrNotConnected = errors.New("bose: not connected to speaker")

	// ErrRequestTimeout is returned when the speaker does not answer a
	// request within the deadline.
	ErrRequestTimeout = errors.New("bose: request timed out")

	// ErrDeviceOperation is returned when the speaker answers a request
	// with a non-success status.
	ErrDeviceOperation = errors.New("bose: device operation failed")

	// ErrInvalidResponse is returned when a device frame cannot be decoded.
	ErrInvalidResponse = errors.New("bose: invalid response")

	// ErrPresetNotSet is returned when a requested preset slot is empty.
	ErrPresetNotSet = errors.New("bose: preset not set")
)
