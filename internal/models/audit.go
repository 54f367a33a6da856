package models

import (
	"time"

	"github.com/segmentio/ksuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEvent names a gift lifecycle transition.
type AuditEvent string

const (
	AuditEventCreated AuditEvent = "CREATED"
	AuditEventOpened  AuditEvent = "OPENED"
)

// AuditRecord is an append-only entry in the gift transaction log.
type AuditRecord struct {
	ID             string                          `gorm:"type:varchar(27);primaryKey" json:"id"`
	GiftID         string                          `gorm:"type:varchar(36);not null;index" json:"gift_id"`
	SenderID       uint                            `gorm:"not null;index" json:"sender_id"`
	RecipientEmail string                          `gorm:"not null" json:"recipient_email"`
	ActorUserID    *uint                           `gorm:"index" json:"actor_user_id,omitempty"`
	ActorEmail     string                          `gorm:"not null;default:''" json:"actor_email"`
	Event          AuditEvent                      `gorm:"type:varchar(16);not null" json:"event"`
	Snapshot       datatypes.JSONType[GiftContent] `json:"snapshot"`
	CreatedAt      time.Time                       `gorm:"not null;index" json:"created_at"`
}

// TableName keeps the historical table name.
func (AuditRecord) TableName() string {
	return "gift_transactions"
}

// BeforeCreate assigns a time-sortable id.
func (r *AuditRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = ksuid.New().String()
	}
	return nil
}

// NewAuditRecord snapshots gift for the given event and actor.
func NewAuditRecord(gift *Gift, event AuditEvent, actorUserID *uint, actorEmail string, at time.Time) *AuditRecord {
	return &AuditRecord{
		GiftID:         gift.ID,
		SenderID:       gift.SenderID,
		RecipientEmail: gift.RecipientEmail,
		ActorUserID:    actorUserID,
		ActorEmail:     actorEmail,
		Event:          event,
		Snapshot:       datatypes.NewJSONType(gift.Content()),
		CreatedAt:      at.UTC(),
	}
}
