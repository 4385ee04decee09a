// Package session caches the single live speaker connection shared by
// all API handlers.
//
// # Architecture
//
// The bridge talks to exactly one speaker, so the store holds at most one
// session. Establishing a session means authenticating against the Bose
// cloud and dialing the speaker's control channel; the store delegates
// both to an injected ConnectFunc so the HTTP layer and tests never see
// the wiring.
//
//	Initialize ──▶ ConnectFunc ──▶ cloud auth + websocket dial
//	                  │
//	                  ▼ (success only)
//	            swap cached session, close the displaced one
//
// A failed Initialize leaves the previous session in place: handlers keep
// working against the old connection until a replacement actually comes
// up. Two overlapping Initialize calls both succeed; the later swap wins
// and the loser is closed.
//
// # Usage
//
//	store := session.NewStore(connect)
//	sess, err := store.Initialize(ctx, creds)
//	...
//	sess, err = store.Current() // session.ErrNotInitialized before first success
//	raw, err := bose.GetVolume(ctx, sess.Controller())
//
// # Thread Safety
//
// All Store methods are safe for concurrent use. Session fields are
// immutable after creation, so a *Session obtained from Current is safe
// to read without further locking. The connection attempt itself runs
// outside the store lock; readers are never blocked behind a slow dial.
package session
