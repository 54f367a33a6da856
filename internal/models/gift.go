package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GiftContent is the payload revealed to the recipient on open.
type GiftContent struct {
	TextMessage string `json:"text_message,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}

// IsEmpty reports whether no content field is set.
func (c GiftContent) IsEmpty() bool {
	return c.TextMessage == "" && c.ImageURL == "" && c.VideoURL == ""
}

// Gift is a time- and passcode-gated content record.
//
// Opened is monotonic: it only ever moves from false to true, and
// RecipientUserID is written in the same conditional update that flips it.
type Gift struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	SenderID        uint       `gorm:"not null;index" json:"sender_id"`
	Sender          *User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientEmail  string     `gorm:"not null;index" json:"recipient_email"`
	RecipientUserID *uint      `json:"recipient_user_id,omitempty"`
	TextMessage     string     `gorm:"type:text;not null;default:''" json:"text_message,omitempty"`
	ImageURL        string     `gorm:"not null;default:''" json:"image_url,omitempty"`
	VideoURL        string     `gorm:"not null;default:''" json:"video_url,omitempty"`
	UnlockAt        time.Time  `gorm:"not null;index" json:"unlock_at"`
	PasscodeHash    string     `gorm:"not null" json:"-"`
	Opened          bool       `gorm:"not null;default:false" json:"opened"`
	OpenedAt        *time.Time `json:"opened_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BeforeCreate assigns the opaque handle.
func (g *Gift) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Content returns the gift payload.
func (g *Gift) Content() GiftContent {
	return GiftContent{
		TextMessage: g.TextMessage,
		ImageURL:    g.ImageURL,
		VideoURL:    g.VideoURL,
	}
}

// View returns the public projection of the gift. It never carries the
// passcode hash or the recipient email.
func (g *Gift) View() GiftView {
	v := GiftView{
		ID:         g.ID,
		UnlockAt:   g.UnlockAt.UTC(),
		Opened:     g.Opened,
		CreatedAt:  g.CreatedAt.UTC(),
		HasMessage: g.TextMessage != "",
		HasImage:   g.ImageURL != "",
		HasVideo:   g.VideoURL != "",
	}
	if g.Sender != nil {
		v.SenderName = g.Sender.Name
	}
	return v
}

// GiftView is the metadata exposed by GET /api/gift/:id.
type GiftView struct {
	ID            string    `json:"id"`
	SenderName    string    `json:"sender_name"`
	UnlockAt      time.Time `json:"unlock_at"`
	UnlockAtLocal string    `json:"unlock_at_local,omitempty"`
	Timezone      string    `json:"timezone,omitempty"`
	Opened        bool      `json:"opened"`
	CreatedAt     time.Time `json:"created_at"`
	HasMessage    bool      `json:"has_message"`
	HasImage      bool      `json:"has_image"`
	HasVideo      bool      `json:"has_video"`
}

// SentGift is a row in the sender's history view.
type SentGift struct {
	ID             string     `json:"id"`
	RecipientEmail string     `json:"recipient_email"`
	UnlockAt       time.Time  `json:"unlock_at"`
	Opened         bool       `json:"opened"`
	OpenedAt       *time.Time `json:"opened_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	GiftContent
}

// Sent projects a gift for its sender.
func (g *Gift) Sent() SentGift {
	return SentGift{
		ID:             g.ID,
		RecipientEmail: g.RecipientEmail,
		UnlockAt:       g.UnlockAt.UTC(),
		Opened:         g.Opened,
		OpenedAt:       g.OpenedAt,
		CreatedAt:      g.CreatedAt.UTC(),
		GiftContent:    g.Content(),
	}
}

// GiftHandle is returned to the sender on creation.
type GiftHandle struct {
	GiftID   string    `json:"gift_id"`
	ShareURL string    `json:"share_url"`
	UnlockAt time.Time `json:"unlock_at"`
}

// OpenResult is returned to the recipient on a successful open.
type OpenResult struct {
	GiftID    string      `json:"gift_id"`
	Content   GiftContent `json:"content"`
	UnlockAt  time.Time   `json:"unlock_at"`
	OpenedAt  time.Time   `json:"opened_at"`
	FirstOpen bool        `json:"first_open"`
}
