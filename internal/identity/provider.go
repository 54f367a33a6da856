// Package identity verifies bearer credentials against the identity provider.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredential means the provider rejected the credential.
	ErrInvalidCredential = errors.New("identity provider rejected credential")
	// ErrUnavailable means the provider could not be reached in time.
	ErrUnavailable = errors.New("identity provider unavailable")
)

// Profile is the verified identity returned by a provider.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Provider exchanges a bearer credential for a verified profile.
type Provider interface {
	Lookup(ctx context.Context, credential string) (*Profile, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, credential string) (*Profile, error)

func (f ProviderFunc) Lookup(ctx context.Context, credential string) (*Profile, error) {
	return f(ctx, credential)
}
