package model

import "time"

// Assignment links a contact to exactly one program, project or task. The
// same contact may not be assigned twice to the same parent.
type Assignment struct {
	ID        uint  `gorm:"primaryKey"`
	ContactID uint  `gorm:"index"`
	ProgramID *uint `gorm:"index"`
	ProjectID *uint `gorm:"index"`
	TaskID    *uint `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Parent returns the single active parent reference.
func (a Assignment) Parent() (ParentRef, bool) {
	return RefFromColumns(a.ProgramID, a.ProjectID, a.TaskID)
}
