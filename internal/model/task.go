package model

import "time"

// Priority is an ordered enumeration; Rank gives the ordering.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Rank returns the position of p in the low-to-critical order, or -1 for an
// unknown value.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	}
	return -1
}

// Task status values.
const (
	TaskNotStarted = "Not Started"
	TaskInProgress = "In Progress"
	TaskCompleted  = "Completed"
	TaskBlocked    = "Blocked"
)

// Task always lives inside a project. It is the only entity that stores
// progress directly; container progress is derived from it.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	ProjectID   uint `gorm:"index"`
	Name        string
	Description string
	Status      string   `gorm:"default:Not Started"`
	Priority    Priority `gorm:"default:Medium"`
	Progress    int      `gorm:"default:0"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Materials   []Material   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Assignments []Assignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (t Task) Range() DateRange {
	return DateRange{Start: t.StartDate, End: t.EndDate}
}
