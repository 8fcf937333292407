package model

import "time"

// Material is a cost-bearing item attached to exactly one program, project
// or task. The three FK columns are mutually exclusive; ParentRef is the
// typed view over them.
type Material struct {
	ID          uint  `gorm:"primaryKey"`
	ProgramID   *uint `gorm:"index"`
	ProjectID   *uint `gorm:"index"`
	TaskID      *uint `gorm:"index"`
	Name        string
	Description string
	Quantity    float64 `gorm:"default:1"`
	Unit        string
	CostPerUnit float64
	Supplier    string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalCost is quantity times unit cost; the only place cost is defined.
func (m Material) TotalCost() float64 {
	return m.Quantity * m.CostPerUnit
}

// Parent returns the single active parent reference.
func (m Material) Parent() (ParentRef, bool) {
	return RefFromColumns(m.ProgramID, m.ProjectID, m.TaskID)
}
