package bose

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is the control token obtained from the cloud login.
//
// The access token authorises requests on the speaker's control channel.
// Refresh handling is out of scope; callers re-authenticate to get a
// fresh token.
type Token struct {
	Access       string
	Refresh      string
	BosePersonID string
	ExpiresAt    time.Time
}

// tokenClaims is the subset of registered and private claims carried by
// the access token that the bridge cares about.
type tokenClaims struct {
	jwt.RegisteredClaims
	BosePersonID string `json:"bosePersonID"`
}

// inspectAccessToken extracts expiry and person ID from the access token.
//
// The token is issued by and consumed by the vendor's services; the bridge
// is not its audience and holds no verification key, so the claims are
// parsed without signature verification. They are used for logging and
// expiry bookkeeping only, never for authorisation decisions.
func inspectAccessToken(access string) (personID string, expiresAt time.Time, err error) {
	parser := jwt.NewParser()

	var claims tokenClaims
	if _, _, err := parser.ParseUnverified(access, &claims); err != nil {
		return "", time.Time{}, fmt.Errorf("parsing access token: %w", err)
	}

	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.BosePersonID, expiresAt, nil
}

// Expired reports whether the token's expiry has passed.
// A token with no known expiry is treated as live.
func (t *Token) Expired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(t.ExpiresAt)
}
