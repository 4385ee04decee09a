package bose

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default endpoints and client key for the cloud login.
//
// The account service is a Gigya-backed identity platform; the token
// service exchanges the identity assertion for a control token accepted
// by the speaker. The key identifies this client the same way the
// vendor's own apps identify themselves.
const (
	defaultAccountURL = "https://accounts.bose.com/accounts.login"
	defaultTokenURL   = "https://id.api.bose.io/id-jwt-core/token"
	defaultAPIKey     = "3_hulnvwDXtoAnGFpDDJGBhmBzOBazW6Vz2JTElENKQkyl0TW5nc2bmOTq7KvCAvRq"

	defaultAuthTimeout = 15 * time.Second
)

// AuthConfig holds cloud login configuration.
//
// The zero value is usable; all fields default to the production
// endpoints. Tests point AccountURL and TokenURL at local servers.
type AuthConfig struct {
	AccountURL string
	TokenURL   string
	APIKey     string

	// Timeout bounds the whole login (both requests).
	Timeout time.Duration

	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client
}

func (cfg *AuthConfig) applyDefaults() {
	if cfg.AccountURL == "" {
		cfg.AccountURL = defaultAccountURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = defaultAPIKey
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultAuthTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
}

// accountResponse is the identity platform's login answer.
type accountResponse struct {
	ErrorCode          int    `json:"errorCode"`
	ErrorMessage       string `json:"errorMessage"`
	UID                string `json:"UID"`
	UIDSignature       string `json:"UIDSignature"`
	SignatureTimestamp string `json:"signatureTimestamp"`
}

// tokenResponse is the token service's exchange answer.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	BosePersonID string `json:"bose_person_id"`
	ExpiresIn    int    `json:"expires_in"`
}

// Authenticate performs the cloud login and returns a control token.
//
// The login has two legs: an account login that yields a signed identity
// assertion, and a token exchange that turns the assertion into the
// control token the speaker accepts.
//
// Error classification:
//   - rejected credentials → ErrAuthFailed
//   - transport failures or unexpected responses → ErrCloudUnreachable
func Authenticate(ctx context.Context, username, password string, cfg AuthConfig) (*Token, error) {
	cfg.applyDefaults()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	account, err := loginAccount(ctx, username, password, cfg)
	if err != nil {
		return nil, err
	}

	token, err := exchangeToken(ctx, account, cfg)
	if err != nil {
		return nil, err
	}

	return token, nil
}

// loginAccount performs the identity platform login leg.
func loginAccount(ctx context.Context, username, password string, cfg AuthConfig) (*accountResponse, error) {
	form := url.Values{}
	form.Set("apiKey", cfg.APIKey)
	form.Set("loginID", username)
	form.Set("password", password)
	form.Set("targetEnv", "mobile")
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.AccountURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: building login request: %w", ErrCloudUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: account login: %w", ErrCloudUnreachable, err)
	}
	defer resp.Body.Close()

	var account accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("%w: decoding login response: %w", ErrCloudUnreachable, err)
	}

	// The identity platform reports auth failures in the body with a
	// 200 status; errorCode 0 is success.
	if account.ErrorCode != 0 {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrAuthFailed, account.ErrorMessage, account.ErrorCode)
	}
	if account.UID == "" || account.UIDSignature == "" {
		return nil, fmt.Errorf("%w: login response missing identity assertion", ErrCloudUnreachable)
	}

	return &account, nil
}

// exchangeToken performs the token exchange leg.
func exchangeToken(ctx context.Context, account *accountResponse, cfg AuthConfig) (*Token, error) {
	payload, err := json.Marshal(map[string]string{
		"gigya_uid":       account.UID,
		"gigya_signature": account.UIDSignature,
		"gigya_ts":        account.SignatureTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding token request: %w", ErrCloudUnreachable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: building token request: %w", ErrCloudUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ApiKey", cfg.APIKey)

	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %w", ErrCloudUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: token exchange rejected (status %d)", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: token exchange status %d", ErrCloudUnreachable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: decoding token response: %w", ErrCloudUnreachable, err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access token", ErrCloudUnreachable)
	}

	token := &Token{
		Access:       tr.AccessToken,
		Refresh:      tr.RefreshToken,
		BosePersonID: tr.BosePersonID,
	}
	if tr.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	// The access token itself carries expiry and person ID claims; prefer
	// those when the response body omits them.
	personID, expiresAt, err := inspectAccessToken(tr.AccessToken)
	if err == nil {
		if token.BosePersonID == "" {
			token.BosePersonID = personID
		}
		if token.ExpiresAt.IsZero() {
			token.ExpiresAt = expiresAt
		}
	}

	return token, nil
}
