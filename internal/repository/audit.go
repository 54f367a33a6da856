package repository

import (
	"context"

	"chronogift/internal/models"

	"gorm.io/gorm"
)

// AuditRepository is append-only: records are never updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, rec *models.AuditRecord) error
	ListByGift(ctx context.Context, giftID string) ([]models.AuditRecord, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.AuditRecord, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.AuditRecord, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository returns a new AuditRepository implementation.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, rec *models.AuditRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *auditRepository) ListByGift(ctx context.Context, giftID string) ([]models.AuditRecord, error) {
	var recs []models.AuditRecord
	if err := r.db.WithContext(ctx).
		Where("gift_id = ?", giftID).
		Order("created_at ASC, id ASC").
		Find(&recs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recs, nil
}

// ListForUser returns records where the user is the sender or the actor.
func (r *auditRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.AuditRecord, error) {
	limit, offset = clampPage(limit, offset)
	var recs []models.AuditRecord
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR actor_user_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&recs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recs, nil
}

func (r *auditRepository) ListAll(ctx context.Context, limit, offset int) ([]models.AuditRecord, error) {
	limit, offset = clampPage(limit, offset)
	var recs []models.AuditRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&recs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recs, nil
}
