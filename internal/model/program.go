package model

import "time"

// Status values shared by programs and projects.
const (
	StatusPlanning  = "Planning"
	StatusActive    = "Active"
	StatusCompleted = "Completed"
	StatusOnHold    = "On Hold"
)

// Program is the optional top-level container of the work breakdown.
type Program struct {
	ID          uint `gorm:"primaryKey"`
	OwnerID     uint `gorm:"index"`
	Name        string
	Description string
	Status      string `gorm:"default:Planning"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Projects    []Project    `gorm:"foreignKey:ProgramID"`
	Materials   []Material   `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
	Milestones  []Milestone  `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
	Assignments []Assignment `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
}

func (p Program) Range() DateRange {
	return DateRange{Start: p.StartDate, End: p.EndDate}
}
