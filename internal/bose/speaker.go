package bose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// closeOnce wraps a channel with sync.Once to prevent double-close panics.
type closeOnce struct {
	ch   chan struct{}
	once sync.Once
}

func newCloseOnce() *closeOnce {
	return &closeOnce{ch: make(chan struct{})}
}

func (c *closeOnce) Close() {
	c.once.Do(func() { close(c.ch) })
}

func (c *closeOnce) Done() <-chan struct{} {
	return c.ch
}

// Control channel constants.
const (
	// controlPort is the port of the speaker's websocket control channel.
	controlPort = 8082

	// controlSubprotocol is the websocket subprotocol the speaker requires.
	controlSubprotocol = "eco2"

	// defaultDialTimeout is the maximum time to wait for the websocket
	// handshake.
	defaultDialTimeout = 15 * time.Second

	// defaultRequestTimeout bounds a single request round trip when the
	// caller's context has no deadline of its own.
	defaultRequestTimeout = 10 * time.Second

	// writeTimeout is the deadline for a single frame write.
	writeTimeout = 5 * time.Second

	// readLimit caps the size of an incoming frame. Capability and
	// product-settings responses run to tens of kilobytes; half a
	// megabyte leaves generous headroom.
	readLimit = 512 * 1024
)

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SpeakerStats holds operational statistics for a control channel.
type SpeakerStats struct {
	RequestsTx    uint64
	ResponsesRx   uint64
	UnsolicitedRx uint64
	ErrorsTotal   uint64
	Connected     bool
	LastActivity  time.Time
}

// Controller is the device-facing surface the rest of the bridge consumes.
//
// Speaker is the production implementation; tests substitute fakes that
// answer Request from canned frames.
type Controller interface {
	// DeviceID returns the identifier of the connected device.
	DeviceID() string

	// Request performs one round trip on the control channel and returns
	// the response body.
	Request(ctx context.Context, method, resource string, body any) (json.RawMessage, error)

	// IsConnected reports whether the control channel is open.
	IsConnected() bool

	// Close shuts the control channel. Safe to call multiple times.
	Close() error
}

// Ensure Speaker implements Controller.
var _ Controller = (*Speaker)(nil)

// SpeakerConfig holds control channel configuration.
type SpeakerConfig struct {
	// Host is the speaker's IP or hostname on the local network.
	Host string

	// DeviceID is the target device identifier.
	DeviceID string

	// Token is the control token from Authenticate.
	Token *Token

	// DialTimeout is the maximum time to wait for the handshake.
	// Default: 15 seconds.
	DialTimeout time.Duration

	// RequestTimeout bounds a request round trip when the caller's
	// context carries no deadline. Default: 10 seconds.
	RequestTimeout time.Duration

	// URL overrides the derived ws://host:8082 endpoint. Used by tests.
	URL string

	// Logger receives connection and frame diagnostics. Optional.
	Logger Logger
}

// Speaker is a connected control channel to a single device.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - Concurrent requests are multiplexed over the single websocket and
//     matched to responses by reqID.
//
// Connection loss fails all pending requests; subsequent requests return
// ErrNotConnected. The channel does not reconnect itself: a session is
// re-established through a fresh dial, which also refreshes the token.
type Speaker struct {
	cfg  SpeakerConfig
	conn *websocket.Conn

	// Connection state
	connMu    sync.RWMutex
	connected bool

	// Request correlation
	reqID     atomic.Int64
	pendingMu sync.Mutex
	pending   map[int]chan frame

	// Frame writes are serialised; gorilla allows one concurrent writer.
	writeMu sync.Mutex

	// Shutdown coordination (closeOnce prevents double-close panics)
	done *closeOnce
	wg   sync.WaitGroup

	logger Logger

	// Statistics (atomic for performance)
	requestsTx    atomic.Uint64
	responsesRx   atomic.Uint64
	unsolicitedRx atomic.Uint64
	errorsTotal   atomic.Uint64
	lastActivity  atomic.Int64 // Unix timestamp
}

// Dial opens the control channel to a speaker.
//
// It performs the websocket handshake against ws://host:8082 with the
// eco2 subprotocol and starts a goroutine that receives response and
// notification frames.
//
// Parameters:
//   - ctx: Context for cancellation (used for the handshake)
//   - cfg: Connection configuration; Host, DeviceID and Token are required
//
// Returns:
//   - *Speaker: Connected channel ready for requests
//   - error: ErrConnectFailed if the handshake fails
func Dial(ctx context.Context, cfg SpeakerConfig) (*Speaker, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Host == "" && cfg.URL == "" {
		return nil, fmt.Errorf("%w: host is required", ErrConnectFailed)
	}
	if cfg.Token == nil {
		return nil, fmt.Errorf("%w: token is required", ErrConnectFailed)
	}

	endpoint := cfg.URL
	if endpoint == "" {
		u := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", cfg.Host, controlPort)}
		endpoint = u.String()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.DialTimeout,
		Subprotocols:     []string{controlSubprotocol},
	}

	conn, resp, err := dialer.DialContext(dialCtx, endpoint, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: handshake rejected: %w", ErrAuthFailed, err)
		}
		return nil, fmt.Errorf("%w: dial %s: %w", ErrConnectFailed, endpoint, err)
	}
	conn.SetReadLimit(readLimit)

	s := &Speaker{
		cfg:     cfg,
		conn:    conn,
		done:    newCloseOnce(),
		pending: make(map[int]chan frame),
		logger:  cfg.Logger,
	}
	s.connMu.Lock()
	s.connected = true
	s.connMu.Unlock()
	s.lastActivity.Store(time.Now().Unix())

	s.wg.Add(1)
	go s.receiveLoop()

	return s, nil
}

// DeviceID returns the identifier of the connected device.
func (s *Speaker) DeviceID() string {
	return s.cfg.DeviceID
}

// Request performs one round trip on the control channel.
//
// The body is JSON-encoded when non-nil. When the caller's context has no
// deadline, the configured request timeout applies. The returned bytes are
// the response body, which may be empty.
//
// Error classification:
//   - closed or lost channel → ErrNotConnected
//   - deadline exceeded → ErrRequestTimeout
//   - device answered with a non-success status → ErrDeviceOperation
func (s *Speaker) Request(ctx context.Context, method, resource string, body any) (json.RawMessage, error) {
	if !s.IsConnected() {
		return nil, ErrNotConnected
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	var encoded json.RawMessage
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		encoded = data
	}

	id := int(s.reqID.Add(1))
	req := frame{
		Header: frameHeader{
			Resource: resource,
			Method:   method,
			MsgType:  msgTypeRequest,
			ReqID:    id,
			Version:  protocolVersion,
			Token:    s.cfg.Token.Access,
		},
		Body: encoded,
	}

	ch := make(chan frame, 1)
	s.pendingMu.Lock()
	s.pending[id] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, id)
		s.pendingMu.Unlock()
	}()

	if err := s.writeFrame(req); err != nil {
		s.errorsTotal.Add(1)
		return nil, err
	}
	s.requestsTx.Add(1)
	s.lastActivity.Store(time.Now().Unix())

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s %s", ErrRequestTimeout, method, resource)
		}
		return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
	case <-s.done.Done():
		return nil, ErrNotConnected
	case resp := <-ch:
		return s.handleResponse(method, resource, resp)
	}
}

// writeFrame serialises and sends a single frame.
func (s *Speaker) writeFrame(f frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("%w: set write deadline: %w", ErrNotConnected, err)
	}
	if err := s.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("%w: write: %w", ErrNotConnected, err)
	}
	return nil
}

// handleResponse maps a response frame to the caller's result.
func (s *Speaker) handleResponse(method, resource string, resp frame) (json.RawMessage, error) {
	status := resp.Header.Status

	// Firmware omits the status field on some success responses.
	if status == 0 || (status >= 200 && status <= 299) {
		return resp.Body, nil
	}

	s.errorsTotal.Add(1)
	msg := errorMessage(resp.Body)
	if msg == "" {
		return nil, fmt.Errorf("%w: %s %s: status %d", ErrDeviceOperation, method, resource, status)
	}
	return nil, fmt.Errorf("%w: %s %s: status %d: %s", ErrDeviceOperation, method, resource, status, msg)
}

// receiveLoop reads frames until the channel closes.
//
// Response frames are delivered to their pending request. Anything else
// is an unsolicited notification; the bridge does not consume the
// device's event stream, so these are counted, logged at debug, and
// dropped.
func (s *Speaker) receiveLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done.Done():
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.isClosed() {
				return
			}
			s.logError("control channel read failed", err)
			s.errorsTotal.Add(1)
			s.handleDisconnect()
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.logError("malformed frame", err)
			s.errorsTotal.Add(1)
			continue
		}

		s.lastActivity.Store(time.Now().Unix())

		if f.Header.MsgType == msgTypeResponse {
			s.pendingMu.Lock()
			ch, ok := s.pending[f.Header.ReqID]
			s.pendingMu.Unlock()
			if ok {
				s.responsesRx.Add(1)
				// A duplicate response for the same ID is dropped rather
				// than wedging the receive loop.
				select {
				case ch <- f:
				default:
				}
				continue
			}
		}

		s.unsolicitedRx.Add(1)
		s.logDebug("dropping unsolicited frame",
			"msgtype", f.Header.MsgType,
			"resource", f.Header.Resource,
			"method", f.Header.Method)
	}
}

// handleDisconnect marks the channel dead and fails pending requests.
func (s *Speaker) handleDisconnect() {
	s.connMu.Lock()
	wasConnected := s.connected
	s.connected = false
	s.connMu.Unlock()

	if wasConnected {
		s.logInfo("control channel lost")
	}

	// Unblock every caller waiting on a response.
	s.done.Close()
}

// isClosed returns true if the channel has been closed.
func (s *Speaker) isClosed() bool {
	select {
	case <-s.done.Done():
		return true
	default:
		return false
	}
}

// IsConnected reports whether the control channel is open.
func (s *Speaker) IsConnected() bool {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return s.connected && !s.isClosed()
}

// Close gracefully shuts the control channel.
//
// It signals the receive loop to stop, fails any pending requests, and
// closes the underlying websocket. Safe to call multiple times.
func (s *Speaker) Close() error {
	s.done.Close()

	s.connMu.Lock()
	s.connected = false
	s.connMu.Unlock()

	// Best-effort close frame so the device sees a clean shutdown.
	s.writeMu.Lock()
	deadline := time.Now().Add(writeTimeout)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	s.writeMu.Unlock()

	err := s.conn.Close()
	s.wg.Wait()

	s.logInfo("control channel closed")
	if err != nil {
		return fmt.Errorf("closing control channel: %w", err)
	}
	return nil
}

// Stats returns current operational statistics.
func (s *Speaker) Stats() SpeakerStats {
	return SpeakerStats{
		RequestsTx:    s.requestsTx.Load(),
		ResponsesRx:   s.responsesRx.Load(),
		UnsolicitedRx: s.unsolicitedRx.Load(),
		ErrorsTotal:   s.errorsTotal.Load(),
		Connected:     s.IsConnected(),
		LastActivity:  time.Unix(s.lastActivity.Load(), 0),
	}
}

// logDebug logs a debug message if logger is set.
func (s *Speaker) logDebug(msg string, keysAndValues ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if logger is set.
func (s *Speaker) logInfo(msg string, keysAndValues ...any) {
	if s.logger != nil {
		s.logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if logger is set.
func (s *Speaker) logError(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, "error", err)
	}
}
