package model

import "fmt"

// ParentKind discriminates the three entity types an attachment can hang off.
type ParentKind string

const (
	ParentProgram ParentKind = "program"
	ParentProject ParentKind = "project"
	ParentTask    ParentKind = "task"
)

// ParentRef is a tagged reference to exactly one Program, Project or Task.
// It is the in-memory form of the three mutually exclusive FK columns on
// Material, Milestone and Assignment.
type ParentRef struct {
	Kind ParentKind
	ID   uint
}

func (r ParentRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Columns expands the reference into values for the program_id, project_id
// and task_id columns. Writing all three in one statement is what keeps the
// exactly-one-parent invariant atomic.
func (r ParentRef) Columns() map[string]interface{} {
	cols := map[string]interface{}{
		"program_id": nil,
		"project_id": nil,
		"task_id":    nil,
	}
	switch r.Kind {
	case ParentProgram:
		cols["program_id"] = r.ID
	case ParentProject:
		cols["project_id"] = r.ID
	case ParentTask:
		cols["task_id"] = r.ID
	}
	return cols
}

func (r ParentRef) valid() bool {
	switch r.Kind {
	case ParentProgram, ParentProject, ParentTask:
		return r.ID != 0
	}
	return false
}

// RefFromColumns rebuilds a ParentRef from the nullable FK columns of a row.
// ok is false when zero or more than one column is set, which only happens if
// the row was corrupted outside the application.
func RefFromColumns(programID, projectID, taskID *uint) (ParentRef, bool) {
	var refs []ParentRef
	if programID != nil {
		refs = append(refs, ParentRef{Kind: ParentProgram, ID: *programID})
	}
	if projectID != nil {
		refs = append(refs, ParentRef{Kind: ParentProject, ID: *projectID})
	}
	if taskID != nil {
		refs = append(refs, ParentRef{Kind: ParentTask, ID: *taskID})
	}
	if len(refs) != 1 {
		return ParentRef{}, false
	}
	return refs[0], true
}
