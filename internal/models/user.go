// Package models contains the persistent records and API views of ChronoGift.
package models

import (
	"time"
)

// User is a person resolved from a verified Google identity.
// GoogleID and Email never change after creation; Name and Picture are
// refreshed on later sign-ins.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GoogleID  string    `gorm:"column:google_id;uniqueIndex;not null" json:"google_id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null;default:''" json:"name"`
	Picture   string    `gorm:"not null;default:''" json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
