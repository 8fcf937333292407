package model

import "time"

// Milestone marks a dated goal on a program or project. Tasks cannot carry
// milestones.
type Milestone struct {
	ID           uint  `gorm:"primaryKey"`
	ProgramID    *uint `gorm:"index"`
	ProjectID    *uint `gorm:"index"`
	Name         string
	Description  string
	TargetDate   time.Time
	Achieved     bool `gorm:"default:false"`
	AchievedDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Parent returns the single active parent reference.
func (m Milestone) Parent() (ParentRef, bool) {
	return RefFromColumns(m.ProgramID, m.ProjectID, nil)
}
