package service

import (
	"context"
	"log/slog"
	"time"

	"chronogift/internal/middleware"
	"chronogift/internal/models"
	"chronogift/internal/observability"
	"chronogift/internal/repository"
)

// AuditService writes and reads the gift transaction log.
type AuditService struct {
	repo         repository.AuditRepository
	storeTimeout time.Duration
}

func NewAuditService(repo repository.AuditRepository, storeTimeout time.Duration) *AuditService {
	return &AuditService{repo: repo, storeTimeout: storeTimeout}
}

// Record appends an event for gift. It is best-effort: a failed write is
// logged and counted, and never reported to the caller.
func (s *AuditService) Record(ctx context.Context, gift *models.Gift, event models.AuditEvent, actorUserID *uint, actorEmail string, at time.Time) {
	rec := models.NewAuditRecord(gift, event, actorUserID, actorEmail, at)

	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.repo.Append(storeCtx, rec); err != nil {
		observability.AuditWriteFailures.WithLabelValues(string(event)).Inc()
		middleware.Logger.ErrorContext(ctx, "audit write failed",
			slog.String("gift_id", gift.ID),
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
	}
}

// ListForUser returns the records where userID is the sender or the actor.
// With giftID set, only that gift's visible records are returned.
func (s *AuditService) ListForUser(ctx context.Context, userID uint, giftID string, limit, offset int) ([]models.AuditRecord, error) {
	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()

	if giftID == "" {
		recs, err := s.repo.ListForUser(storeCtx, userID, limit, offset)
		return recs, storeErr(storeCtx, err)
	}

	recs, err := s.repo.ListByGift(storeCtx, giftID)
	if err != nil {
		return nil, storeErr(storeCtx, err)
	}
	visible := make([]models.AuditRecord, 0, len(recs))
	for _, r := range recs {
		if r.SenderID == userID || (r.ActorUserID != nil && *r.ActorUserID == userID) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// ListByGift returns every record of a gift in write order.
func (s *AuditService) ListByGift(ctx context.Context, giftID string) ([]models.AuditRecord, error) {
	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	recs, err := s.repo.ListByGift(storeCtx, giftID)
	return recs, storeErr(storeCtx, err)
}

// ListAll pages through the whole log, newest first.
func (s *AuditService) ListAll(ctx context.Context, limit, offset int) ([]models.AuditRecord, error) {
	storeCtx, cancel := withTimeout(ctx, s.storeTimeout)
	defer cancel()
	recs, err := s.repo.ListAll(storeCtx, limit, offset)
	return recs, storeErr(storeCtx, err)
}
