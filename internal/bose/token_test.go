package bose

import (
	"testing"
	"time"
)

func TestInspectAccessToken(t *testing.T) {
	expiry := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	access := signedTestToken(t, "person-42", expiry)

	personID, expiresAt, err := inspectAccessToken(access)
	if err != nil {
		t.Fatalf("inspectAccessToken() error: %v", err)
	}

	if personID != "person-42" {
		t.Errorf("personID = %q, want person-42", personID)
	}
	if expiresAt.Unix() != expiry.Unix() {
		t.Errorf("expiresAt = %v, want %v", expiresAt, expiry)
	}
}

func TestInspectAccessToken_NotAJWT(t *testing.T) {
	if _, _, err := inspectAccessToken("opaque-token"); err == nil {
		t.Error("inspectAccessToken() expected error for non-JWT input")
	}
}

func TestTokenExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiry",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "past expiry",
			expiresAt: time.Now().Add(-1 * time.Minute),
			want:      true,
		},
		{
			name:      "no expiry known",
			expiresAt: time.Time{},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{Access: "x", ExpiresAt: tt.expiresAt}
			if got := token.Expired(); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
