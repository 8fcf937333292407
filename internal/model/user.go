package model

import "time"

// User owns programs, standalone projects and contacts. Users are never hard
// deleted, only disabled, so owned history stays resolvable.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex"`
	Email          string `gorm:"uniqueIndex"`
	PasswordHash   string
	TelegramChatID *int64 `gorm:"uniqueIndex"`
	DisabledAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Disabled reports whether the account has been soft-disabled.
func (u User) Disabled() bool {
	return u.DisabledAt != nil
}
