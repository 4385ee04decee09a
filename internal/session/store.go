package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/config"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ConnectFunc establishes a device connection from a credential set.
// The production implementation authenticates against the cloud and dials
// the speaker; tests substitute fakes.
type ConnectFunc func(ctx context.Context, creds config.Credentials) (bose.Controller, error)

// Session is one live connection to a speaker.
//
// Fields are set once at creation and never mutated; a *Session handed
// out by the Store is safe to read from any goroutine.
type Session struct {
	ID        string
	DeviceID  string
	Host      string
	Username  string
	CreatedAt time.Time

	ctrl bose.Controller
}

// Controller returns the device control channel of this session.
func (s *Session) Controller() bose.Controller {
	return s.ctrl
}

// Connected reports whether the session's control channel is still open.
func (s *Session) Connected() bool {
	return s.ctrl != nil && s.ctrl.IsConnected()
}

// Store holds at most one live session.
//
// Initialize replaces the cached session only when the connection attempt
// succeeds; a failed attempt leaves the previous session untouched and
// usable. Concurrent initializations resolve to last-write-wins, with the
// losing session closed.
//
// All public methods are thread-safe.
type Store struct {
	connect ConnectFunc

	mu      sync.RWMutex
	current *Session

	logger Logger
}

// NewStore creates a session store around a connect function.
func NewStore(connect ConnectFunc) *Store {
	return &Store{
		connect: connect,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Initialize establishes a new session and caches it.
//
// The connection attempt runs outside the lock, so readers keep seeing
// the previous session while a new one is being established. Only a
// successful attempt swaps the cache; the replaced session, if any, is
// closed after the swap.
func (s *Store) Initialize(ctx context.Context, creds config.Credentials) (*Session, error) {
	ctrl, err := s.connect(ctx, creds)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.NewString(),
		DeviceID:  ctrl.DeviceID(),
		Host:      creds.Host,
		Username:  creds.Username,
		CreatedAt: time.Now().UTC(),
		ctrl:      ctrl,
	}

	s.mu.Lock()
	old := s.current
	s.current = sess
	s.mu.Unlock()

	if old != nil {
		s.closeSession(old, "replaced")
	}

	s.logger.Info("session established",
		"session_id", sess.ID,
		"device_id", sess.DeviceID,
		"host", sess.Host)

	return sess, nil
}

// Current returns the live session.
// Returns ErrNotInitialized when no session has been established.
func (s *Store) Current() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNotInitialized
	}
	return s.current, nil
}

// Active reports whether a session is cached.
func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Clear closes and removes the cached session. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	old := s.current
	s.current = nil
	s.mu.Unlock()

	if old != nil {
		s.closeSession(old, "cleared")
	}
}

// closeSession closes a session's control channel, logging failures.
func (s *Store) closeSession(sess *Session, reason string) {
	if err := sess.ctrl.Close(); err != nil {
		s.logger.Warn("closing session", "session_id", sess.ID, "reason", reason, "error", err)
		return
	}
	s.logger.Debug("session closed", "session_id", sess.ID, "reason", reason)
}
