package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/google"
)

// GoogleConfig configures the Google userinfo lookup.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Timeout      time.Duration
	// Transport overrides the HTTP transport; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// GoogleProvider verifies Google OAuth access tokens through goth.
type GoogleProvider struct {
	provider *google.Provider
	timeout  time.Duration
}

// NewGoogleProvider builds a provider whose every lookup is bounded by cfg.Timeout.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := google.New(cfg.ClientID, cfg.ClientSecret, cfg.CallbackURL, "email", "profile")
	p.HTTPClient = &http.Client{Timeout: timeout, Transport: cfg.Transport}
	return &GoogleProvider{provider: p, timeout: timeout}
}

type lookupResult struct {
	user goth.User
	err  error
}

// Lookup fetches the userinfo profile for an access token.
func (g *GoogleProvider) Lookup(ctx context.Context, credential string) (*Profile, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidCredential)
	}

	done := make(chan lookupResult, 1)
	go func() {
		user, err := g.provider.FetchUser(&google.Session{AccessToken: credential})
		done <- lookupResult{user: user, err: err}
	}()

	var res lookupResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		var urlErr *url.Error
		if errors.As(res.err, &urlErr) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, res.err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, res.err)
	}
	if res.user.UserID == "" || res.user.Email == "" {
		return nil, fmt.Errorf("%w: profile missing subject or email", ErrInvalidCredential)
	}

	return &Profile{
		Subject: res.user.UserID,
		Email:   res.user.Email,
		Name:    res.user.Name,
		Picture: res.user.AvatarURL,
	}, nil
}
