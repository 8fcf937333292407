package repository

import "project-planner/internal/model"

// parentCondition builds the WHERE clause selecting rows attached to the
// given parent.
func parentCondition(ref model.ParentRef) (string, uint) {
	switch ref.Kind {
	case model.ParentProgram:
		return "program_id = ?", ref.ID
	case model.ParentProject:
		return "project_id = ?", ref.ID
	default:
		return "task_id = ?", ref.ID
	}
}
