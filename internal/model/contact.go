package model

import "time"

// Contact is an independent person record; assignments reference it but
// never own it.
type Contact struct {
	ID        uint `gorm:"primaryKey"`
	OwnerID   uint `gorm:"index"`
	Name      string
	Email     string
	Phone     string
	Role      string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
