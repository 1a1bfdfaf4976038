package models

import "time"

// Account constraints shared by forms and handlers.
const (
	MinUsernameLen = 5
	MaxUsernameLen = 75
	MinPasswordLen = 8
)

// DefaultAvatar is the placeholder profile picture assigned on signup.
// It is shared between users and must never be removed from storage.
const DefaultAvatar = "static/images/default-avatar.jpg"

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;size:75;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null" json:"-"` // bcrypt hash, never plaintext
	ProfilePicture string `gorm:"not null"`
	DateJoined     time.Time

	Privacy  Privacy   `gorm:"constraint:OnDelete:CASCADE"`
	Foods    []Food    `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Logs     []Log     `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Comments []Comment `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
}

// Privacy holds the per-user visibility flag. Every user has exactly one row,
// created in the same transaction as the user itself.
type Privacy struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"uniqueIndex;not null"`
	ShowLogs bool `gorm:"not null;default:true"`
}
