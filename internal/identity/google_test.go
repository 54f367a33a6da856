package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rewriteTransport sends every request to target regardless of host.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *GoogleProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return NewGoogleProvider(GoogleConfig{
		ClientID:  "client",
		Timeout:   timeout,
		Transport: rewriteTransport{target: target},
	})
}

func TestGoogleProvider_Lookup(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
		want    *Profile
	}{
		{
			name: "verified profile",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("access_token") != "good" && r.Header.Get("Authorization") != "Bearer good" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"1234","email":"ada@example.com","name":"Ada","picture":"https://img/a.png"}`))
			},
			want: &Profile{Subject: "1234", Email: "ada@example.com", Name: "Ada", Picture: "https://img/a.png"},
		},
		{
			name: "provider rejects token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: ErrInvalidCredential,
		},
		{
			name: "profile without email",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"id":"1234"}`))
			},
			wantErr: ErrInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, tt.handler, time.Second)
			got, err := p.Lookup(context.Background(), "good")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGoogleProvider_Timeout(t *testing.T) {
	release := make(chan struct{})
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	// unblock the handler before the server shuts down
	t.Cleanup(func() { close(release) })

	_, err := p.Lookup(context.Background(), "slow")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGoogleProvider_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 5*time.Second)
	// unblock the handler before the server shuts down
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Lookup(ctx, "slow")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGoogleProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target, _ := url.Parse(srv.URL)
	srv.Close()

	p := NewGoogleProvider(GoogleConfig{Timeout: time.Second, Transport: rewriteTransport{target: target}})
	_, err := p.Lookup(context.Background(), "token")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGoogleProvider_EmptyCredential(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{})
	_, err := p.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
