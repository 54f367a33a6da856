package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chronogift/internal/identity"
	"chronogift/internal/middleware"
	"chronogift/internal/models"
	"chronogift/internal/observability"
	"chronogift/internal/repository"
	"chronogift/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// IdentityService maps bearer credentials onto stable users.
type IdentityService struct {
	provider        identity.Provider
	users           repository.UserRepository
	identityTimeout time.Duration
	storeTimeout    time.Duration
}

// NewIdentityService wires the provider lookup and the user store.
func NewIdentityService(
	provider identity.Provider,
	users repository.UserRepository,
	identityTimeout, storeTimeout time.Duration,
) *IdentityService {
	return &IdentityService{
		provider:        provider,
		users:           users,
		identityTimeout: identityTimeout,
		storeTimeout:    storeTimeout,
	}
}

// Resolve verifies credential with the identity provider and returns the
// matching user, creating it on first sight of the subject id.
func (s *IdentityService) Resolve(ctx context.Context, credential string) (*models.User, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, models.NewValidationError("Credential is required")
	}

	span, ctx := observability.StartSpan(ctx, "identity.resolve")
	defer span.End()

	profile, err := s.lookup(ctx, credential)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.String("identity.subject", profile.Subject))

	user, err := s.findOrCreate(ctx, profile)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("user.id", int(user.ID)))
	return user, nil
}

func (s *IdentityService) lookup(ctx context.Context, credential string) (*identity.Profile, error) {
	lookupCtx, cancel := withTimeout(ctx, s.identityTimeout)
	defer cancel()

	done := observability.TrackIdentityLookup()
	profile, err := s.provider.Lookup(lookupCtx, credential)
	switch {
	case err == nil:
		done("ok")
	case errors.Is(err, identity.ErrInvalidCredential):
		done("rejected")
		return nil, models.NewInvalidCredentialError(err)
	default:
		done("unavailable")
		return nil, models.NewUnavailableError("Identity provider", err)
	}

	if profile.Subject == "" || validation.ValidateEmail(validation.NormalizeEmail(profile.Email)) != nil {
		return nil, models.NewInvalidCredentialError(errors.New("profile missing subject or email"))
	}
	profile.Email = validation.NormalizeEmail(profile.Email)
	return profile, nil
}

func (s *IdentityService) findOrCreate(ctx context.Context, profile *identity.Profile) (*models.User, error) {
	user, err := s.getByGoogleID(ctx, profile.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.refreshProfile(ctx, user, profile)
		return user, nil
	}

	user = &models.User{
		GoogleID: profile.Subject,
		Email:    profile.Email,
		Name:     profile.Name,
		Picture:  profile.Picture,
	}
	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	err = storeErr(storeCtx, s.users.Create(storeCtx, user))
	cancel()
	if err == nil {
		middleware.Logger.InfoContext(ctx, "user created",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("email", user.Email))
		return user, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, err
	}

	// A concurrent sign-in created the row first.
	existing, err := s.getByGoogleID(ctx, profile.Subject)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, models.NewValidationError("Email is already registered to another account")
	}
	return existing, nil
}

func (s *IdentityService) getByGoogleID(ctx context.Context, subject string) (*models.User, error) {
	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	user, err := s.users.GetByGoogleID(storeCtx, subject)
	return user, storeErr(storeCtx, err)
}

// refreshProfile updates display fields; failures leave the stale values in place.
func (s *IdentityService) refreshProfile(ctx context.Context, user *models.User, profile *identity.Profile) {
	if user.Name == profile.Name && user.Picture == profile.Picture {
		return
	}
	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.users.UpdateProfile(storeCtx, user.ID, profile.Name, profile.Picture); err != nil {
		middleware.Logger.WarnContext(ctx, "profile refresh failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()))
		return
	}
	user.Name = profile.Name
	user.Picture = profile.Picture
}

// GetUser returns the user behind a session.
func (s *IdentityService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	user, err := s.users.GetByID(storeCtx, id)
	if err != nil {
		return nil, storeErr(storeCtx, err)
	}
	return user, nil
}
