package models

import "time"

// RefreshToken stores the SHA-256 hex hash of an issued refresh JWT,
// never the token itself.
type RefreshToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;not null;index"`
	TokenHash string    `gorm:"size:64;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	User      *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
