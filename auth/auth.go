package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipcast/types"
)

// tokenResponse mirrors the JSON body of a successful token endpoint call.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Flow exchanges credentials against a platform's OAuth token endpoint.
type Flow struct {
	TokenURL string
	Client   *http.Client

	// now is swappable for tests.
	now func() time.Time
}

// NewFlow creates a Flow for the given token endpoint. A nil client falls
// back to http.DefaultClient.
func NewFlow(tokenURL string, client *http.Client) *Flow {
	if client == nil {
		client = http.DefaultClient
	}
	return &Flow{TokenURL: tokenURL, Client: client, now: time.Now}
}

// Authorize ensures cred carries a valid access token.
//
// If the stored token is present and unexpired this is a no-op with zero
// network calls. Otherwise exactly one POST is made to the token endpoint,
// preferring the refresh token grant over the one-time authorization code.
// On success the access token and expiry are replaced together; on 4xx the
// credential is rejected and on 5xx or transport fault the failure is
// transient and the caller may retry.
func (f *Flow) Authorize(ctx context.Context, cred *Credential) error {
	cred.mu.Lock()
	defer cred.mu.Unlock()

	if cred.valid(f.now()) {
		return nil
	}

	form := url.Values{
		"client_id":     {cred.ClientID},
		"client_secret": {cred.ClientSecret},
	}
	switch {
	case cred.refreshToken != "":
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", cred.refreshToken)
	case cred.authCode != "":
		form.Set("grant_type", "authorization_code")
		form.Set("code", cred.authCode)
		if cred.RedirectURI != "" {
			form.Set("redirect_uri", cred.RedirectURI)
		}
	default:
		return &types.AuthError{Reason: types.AuthMissingCredential}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.Client.Do(req)
	if err != nil {
		return &types.TransientError{Err: fmt.Errorf("token endpoint: %w", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to parse
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &types.AuthError{Reason: types.AuthRejected, Body: string(body)}
	default:
		return &types.TransientError{Err: fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return fmt.Errorf("parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return &types.AuthError{Reason: types.AuthRejected, Body: "empty access_token in response"}
	}

	var expiry time.Time
	if tok.ExpiresIn > 0 {
		expiry = f.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	cred.setToken(tok.AccessToken, expiry)
	if tok.RefreshToken != "" {
		cred.refreshToken = tok.RefreshToken
	}
	// The code grant is one-time; drop it so a later refresh path is taken.
	cred.authCode = ""

	log.Printf("access token refreshed (expires in %ds)", tok.ExpiresIn)
	return nil
}
