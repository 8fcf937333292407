package model

import "fmt"

// ReferenceError reports that a referenced id does not exist or is not owned
// by the calling account.
type ReferenceError struct {
	Entity string
	ID     uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist or is not yours", e.Entity, e.ID)
}

// InvalidParentKindError reports an attachment targeting a parent type the
// entity does not allow, e.g. a milestone on a task.
type InvalidParentKindError struct {
	Entity string
	Kind   ParentKind
}

func (e *InvalidParentKindError) Error() string {
	return fmt.Sprintf("%s cannot be attached to a %s", e.Entity, e.Kind)
}

// DateRangeError reports a date range that is inverted or escapes its
// parent's range.
type DateRangeError struct {
	Entity string
	Reason string
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("%s dates: %s", e.Entity, e.Reason)
}

// ValidationError reports a field value outside its allowed domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// DuplicateAssignmentError reports that the contact is already assigned to
// that parent.
type DuplicateAssignmentError struct {
	ContactID uint
	Parent    ParentRef
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("contact %d is already assigned to %s", e.ContactID, e.Parent)
}

// ReferencedEntityError reports a delete blocked by rows that still reference
// the entity.
type ReferencedEntityError struct {
	Entity     string
	ID         uint
	Dependents int64
}

func (e *ReferencedEntityError) Error() string {
	return fmt.Sprintf("%s %d is still referenced by %d assignment(s)", e.Entity, e.ID, e.Dependents)
}
