package auth

import (
	"context"
	"log"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// notifyFunc is called whenever the underlying token source hands back a
// refreshed token, so the caller can persist it.
type notifyFunc func(*oauth2.Token) error

// NotifyingTokenSource wraps an oauth2.TokenSource and invokes a callback
// when the access token changes underneath it.
type NotifyingTokenSource struct {
	src    oauth2.TokenSource
	notify notifyFunc
	curr   *oauth2.Token
}

// NewNotifyingTokenSource builds a token source from the oauth2 config and
// seed token. notify may be nil.
func NewNotifyingTokenSource(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, notify notifyFunc) *NotifyingTokenSource {
	return &NotifyingTokenSource{
		src:    cfg.TokenSource(ctx, tok),
		notify: notify,
		curr:   tok,
	}
}

// Token returns a token with a valid access token, refreshing through the
// wrapped source when needed.
func (s *NotifyingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.curr == nil || s.curr.AccessToken != tok.AccessToken {
		s.curr = tok
		if s.notify != nil {
			if err := s.notify(tok); err != nil {
				// The fresh token is still returned; only persistence failed.
				log.Printf("token refresh notify failed: %v", err)
			}
		}
	}
	return s.curr, nil
}

// GoogleConfig builds the oauth2 config for YouTube uploads from a client
// identity, using Google's standard endpoints.
func GoogleConfig(clientID, clientSecret, redirectURI string, scopes ...string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
}
