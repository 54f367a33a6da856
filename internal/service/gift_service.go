package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"chronogift/internal/cache"
	"chronogift/internal/middleware"
	"chronogift/internal/models"
	"chronogift/internal/observability"
	"chronogift/internal/repository"
	"chronogift/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	minPasscodeLen = 4
	maxPasscodeLen = 128
	maxTextLen     = 5000
	maxURLLen      = 2048
)

// PasscodeHasher hashes and verifies gift passcodes.
type PasscodeHasher interface {
	Hash(passcode string) (string, error)
	Verify(passcode, encoded string) (bool, error)
}

// GiftServiceConfig carries the tunables of the gift lifecycle.
type GiftServiceConfig struct {
	ShareBaseURL string
	StrictReopen bool
	StoreTimeout time.Duration
}

// GiftService creates gifts and performs the one-time open.
type GiftService struct {
	gifts  repository.GiftRepository
	audit  *AuditService
	hasher PasscodeHasher
	cfg    GiftServiceConfig
	now    func() time.Time
}

func NewGiftService(
	gifts repository.GiftRepository,
	audit *AuditService,
	hasher PasscodeHasher,
	cfg GiftServiceConfig,
) *GiftService {
	return &GiftService{
		gifts:  gifts,
		audit:  audit,
		hasher: hasher,
		cfg:    cfg,
		now:    time.Now,
	}
}

// SetClock replaces the time source.
func (s *GiftService) SetClock(now func() time.Time) {
	s.now = now
}

type CreateGiftInput struct {
	Sender         *models.User
	RecipientEmail string
	UnlockInstant  string
	Passcode       string
	Content        models.GiftContent
}

// Opener is the resolved identity attempting an open. UserID is nil when
// the opener was identified by email only.
type Opener struct {
	UserID *uint
	Email  string
}

type OpenGiftInput struct {
	GiftID   string
	Opener   Opener
	Passcode string
}

// Create validates the request, stores the gift with a hashed passcode and
// returns its handle and share link.
func (s *GiftService) Create(ctx context.Context, in CreateGiftInput) (*models.GiftHandle, error) {
	if in.Sender == nil || in.Sender.ID == 0 {
		return nil, models.NewUnauthorizedError("Sender is required")
	}

	recipient := validation.NormalizeEmail(in.RecipientEmail)
	if err := validation.ValidateEmail(recipient); err != nil {
		return nil, models.NewValidationError("Recipient " + err.Error())
	}
	unlockAt, err := validation.ParseInstant(in.UnlockInstant)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validatePasscode(in.Passcode); err != nil {
		return nil, err
	}
	content := models.GiftContent{
		TextMessage: in.Content.TextMessage,
		ImageURL:    strings.TrimSpace(in.Content.ImageURL),
		VideoURL:    strings.TrimSpace(in.Content.VideoURL),
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	span, ctx := observability.StartSpan(ctx, "gift.create", attribute.Int("sender.id", int(in.Sender.ID)))
	defer span.End()

	hash, err := s.hasher.Hash(in.Passcode)
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(fmt.Errorf("hash passcode: %w", err))
	}

	gift := &models.Gift{
		SenderID:       in.Sender.ID,
		RecipientEmail: recipient,
		TextMessage:    content.TextMessage,
		ImageURL:       content.ImageURL,
		VideoURL:       content.VideoURL,
		UnlockAt:       unlockAt,
		PasscodeHash:   hash,
	}

	storeCtx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	err = storeErr(storeCtx, s.gifts.Create(storeCtx, gift))
	cancel()
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.String("gift.id", gift.ID))

	senderID := in.Sender.ID
	s.audit.Record(ctx, gift, models.AuditEventCreated, &senderID, in.Sender.Email, s.now())
	observability.GiftEvents.WithLabelValues("created").Inc()

	middleware.Logger.InfoContext(ctx, "gift created",
		slog.String("gift_id", gift.ID),
		slog.Time("unlock_at", gift.UnlockAt))

	return &models.GiftHandle{
		GiftID:   gift.ID,
		ShareURL: s.ShareURL(gift.ID),
		UnlockAt: gift.UnlockAt,
	}, nil
}

// ShareURL builds the recipient link for a gift handle.
func (s *GiftService) ShareURL(giftID string) string {
	return strings.TrimRight(s.cfg.ShareBaseURL, "/") + "/gift/" + url.PathEscape(giftID)
}

// Open runs the ordered open checks: existence, recipient, already opened,
// unlock time, passcode. The first successful open flips the gift exactly
// once, even under concurrent callers.
func (s *GiftService) Open(ctx context.Context, in OpenGiftInput) (*models.OpenResult, error) {
	if strings.TrimSpace(in.GiftID) == "" {
		return nil, models.NewValidationError("Gift ID is required")
	}
	if in.Passcode == "" {
		return nil, models.NewValidationError("Passcode is required")
	}
	openerEmail := validation.NormalizeEmail(in.Opener.Email)
	if openerEmail == "" {
		return nil, models.NewUnauthorizedError("Opener identity is required")
	}

	span, ctx := observability.StartSpan(ctx, "gift.open", attribute.String("gift.id", in.GiftID))
	defer span.End()

	res, err := s.open(ctx, in, openerEmail)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			observability.OpenRejections.WithLabelValues(appErr.Code).Inc()
		}
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Bool("gift.first_open", res.FirstOpen))
	return res, nil
}

func (s *GiftService) open(ctx context.Context, in OpenGiftInput, openerEmail string) (*models.OpenResult, error) {
	now := s.now().UTC()

	gift, err := s.getGift(ctx, in.GiftID)
	if err != nil {
		return nil, err
	}

	if gift.RecipientEmail != openerEmail {
		return nil, models.NewForbiddenError("This gift is addressed to someone else")
	}

	if gift.Opened {
		return s.reopen(gift, in.Opener)
	}

	if now.Before(gift.UnlockAt) {
		return nil, models.NewNotYetUnlockedError(gift.UnlockAt)
	}

	ok, err := s.hasher.Verify(in.Passcode, gift.PasscodeHash)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("verify passcode: %w", err))
	}
	if !ok {
		return nil, models.NewInvalidPasscodeError()
	}

	storeCtx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	changed, err := s.gifts.MarkOpened(storeCtx, gift.ID, in.Opener.UserID, now)
	err = storeErr(storeCtx, err)
	cancel()
	if err != nil {
		return nil, err
	}

	if !changed {
		// Lost the race: answer from the winner's state.
		current, err := s.getGift(ctx, gift.ID)
		if err != nil {
			return nil, err
		}
		return s.reopen(current, in.Opener)
	}

	gift.Opened = true
	gift.OpenedAt = &now
	gift.RecipientUserID = in.Opener.UserID

	s.audit.Record(ctx, gift, models.AuditEventOpened, in.Opener.UserID, openerEmail, now)
	cache.Invalidate(ctx, cache.GiftViewKey(gift.ID))
	observability.GiftEvents.WithLabelValues("opened").Inc()

	middleware.Logger.InfoContext(ctx, "gift opened", slog.String("gift_id", gift.ID))

	return &models.OpenResult{
		GiftID:    gift.ID,
		Content:   gift.Content(),
		UnlockAt:  gift.UnlockAt.UTC(),
		OpenedAt:  now,
		FirstOpen: true,
	}, nil
}

// reopen answers an open on an already opened gift without touching state.
func (s *GiftService) reopen(gift *models.Gift, opener Opener) (*models.OpenResult, error) {
	if gift.RecipientUserID != nil && (opener.UserID == nil || *opener.UserID != *gift.RecipientUserID) {
		return nil, models.NewForbiddenError("This gift was opened by another account")
	}
	if s.cfg.StrictReopen {
		return nil, models.NewAlreadyOpenedError()
	}

	observability.GiftEvents.WithLabelValues("reopened").Inc()
	res := &models.OpenResult{
		GiftID:   gift.ID,
		Content:  gift.Content(),
		UnlockAt: gift.UnlockAt.UTC(),
	}
	if gift.OpenedAt != nil {
		res.OpenedAt = gift.OpenedAt.UTC()
	}
	return res, nil
}

// GetMetadata returns the public view of a gift. When zone is set the
// unlock instant is also rendered in that IANA zone.
func (s *GiftService) GetMetadata(ctx context.Context, giftID, zone string) (*models.GiftView, error) {
	if strings.TrimSpace(giftID) == "" {
		return nil, models.NewValidationError("Gift ID is required")
	}
	var loc *time.Location
	if zone != "" {
		var err error
		if loc, err = validation.ParseZone(zone); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	var view models.GiftView
	err := cache.Aside(ctx, cache.GiftViewKey(giftID), &view, cache.GiftViewTTL, func() error {
		gift, err := s.getGift(ctx, giftID)
		if err != nil {
			return err
		}
		view = gift.View()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if loc != nil {
		view.UnlockAtLocal = view.UnlockAt.In(loc).Format(time.RFC3339)
		view.Timezone = loc.String()
	}
	return &view, nil
}

// ListBySender returns the caller's sent gifts, newest first. Callers may
// only list their own gifts.
func (s *GiftService) ListBySender(ctx context.Context, callerID, senderID uint, limit, offset int) ([]models.SentGift, error) {
	if callerID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if senderID == 0 {
		senderID = callerID
	}
	if senderID != callerID {
		return nil, models.NewForbiddenError("You can only list your own gifts")
	}

	storeCtx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	gifts, err := s.gifts.ListBySender(storeCtx, senderID, limit, offset)
	if err != nil {
		return nil, storeErr(storeCtx, err)
	}
	return toSent(gifts), nil
}

// ListAll pages through every gift for operators.
func (s *GiftService) ListAll(ctx context.Context, limit, offset int) ([]models.SentGift, error) {
	storeCtx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	gifts, err := s.gifts.List(storeCtx, limit, offset)
	if err != nil {
		return nil, storeErr(storeCtx, err)
	}
	return toSent(gifts), nil
}

func (s *GiftService) getGift(ctx context.Context, giftID string) (*models.Gift, error) {
	if _, err := uuid.Parse(giftID); err != nil {
		return nil, models.NewNotFoundError("Gift", giftID)
	}
	storeCtx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	gift, err := s.gifts.GetByID(storeCtx, giftID)
	if err != nil {
		return nil, storeErr(storeCtx, err)
	}
	return gift, nil
}

func toSent(gifts []models.Gift) []models.SentGift {
	out := make([]models.SentGift, 0, len(gifts))
	for i := range gifts {
		out = append(out, gifts[i].Sent())
	}
	return out
}

func validatePasscode(passcode string) error {
	n := utf8.RuneCountInString(passcode)
	if strings.TrimSpace(passcode) == "" {
		return models.NewValidationError("Passcode is required")
	}
	if n < minPasscodeLen || n > maxPasscodeLen {
		return models.NewValidationError(fmt.Sprintf("Passcode must be %d-%d characters", minPasscodeLen, maxPasscodeLen))
	}
	return nil
}

func validateContent(c models.GiftContent) error {
	if utf8.RuneCountInString(c.TextMessage) > maxTextLen {
		return models.NewValidationError(fmt.Sprintf("Text message too long (max %d characters)", maxTextLen))
	}
	for field, raw := range map[string]string{"image_url": c.ImageURL, "video_url": c.VideoURL} {
		if raw == "" {
			continue
		}
		if len(raw) > maxURLLen {
			return models.NewValidationError(fmt.Sprintf("%s too long (max %d characters)", field, maxURLLen))
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return models.NewValidationError(field + " must be an absolute http(s) URL")
		}
	}
	return nil
}
