package repository

import (
	"context"
	"errors"
	"time"

	"chronogift/internal/models"

	"gorm.io/gorm"
)

// GiftRepository defines persistence operations for gifts.
type GiftRepository interface {
	Create(ctx context.Context, gift *models.Gift) error
	GetByID(ctx context.Context, id string) (*models.Gift, error)
	MarkOpened(ctx context.Context, id string, openerID *uint, at time.Time) (bool, error)
	ListBySender(ctx context.Context, senderID uint, limit, offset int) ([]models.Gift, error)
	List(ctx context.Context, limit, offset int) ([]models.Gift, error)
}

type giftRepository struct {
	db *gorm.DB
}

// NewGiftRepository returns a new GiftRepository implementation.
func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &giftRepository{db: db}
}

func (r *giftRepository) Create(ctx context.Context, gift *models.Gift) error {
	if err := r.db.WithContext(ctx).Create(gift).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *giftRepository) GetByID(ctx context.Context, id string) (*models.Gift, error) {
	var gift models.Gift
	if err := r.db.WithContext(ctx).Preload("Sender").Where("id = ?", id).First(&gift).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Gift", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &gift, nil
}

// MarkOpened flips opened false->true and binds the recipient in one
// conditional update. It reports false when the gift was already opened.
func (r *giftRepository) MarkOpened(ctx context.Context, id string, openerID *uint, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"opened":     true,
		"opened_at":  at.UTC(),
		"updated_at": at.UTC(),
	}
	if openerID != nil {
		updates["recipient_user_id"] = *openerID
	}
	res := r.db.WithContext(ctx).Model(&models.Gift{}).
		Where("id = ? AND opened = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *giftRepository) ListBySender(ctx context.Context, senderID uint, limit, offset int) ([]models.Gift, error) {
	limit, offset = clampPage(limit, offset)
	var gifts []models.Gift
	if err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&gifts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return gifts, nil
}

func (r *giftRepository) List(ctx context.Context, limit, offset int) ([]models.Gift, error) {
	limit, offset = clampPage(limit, offset)
	var gifts []models.Gift
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&gifts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return gifts, nil
}
