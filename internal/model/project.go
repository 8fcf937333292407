package model

import "time"

// Project belongs to a program or stands alone when ProgramID is nil.
type Project struct {
	ID          uint  `gorm:"primaryKey"`
	OwnerID     uint  `gorm:"index"`
	ProgramID   *uint `gorm:"index"`
	Name        string
	Description string
	Status      string `gorm:"default:Planning"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tasks       []Task       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Materials   []Material   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Milestones  []Milestone  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Assignments []Assignment `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (p Project) Range() DateRange {
	return DateRange{Start: p.StartDate, End: p.EndDate}
}
