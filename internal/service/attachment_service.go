package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// MaterialInput carries the writable fields of a material.
type MaterialInput struct {
	Name        string
	Description string
	Quantity    float64
	Unit        string
	CostPerUnit float64
	Supplier    string
	Notes       string
}

// MilestoneInput carries the writable fields of a milestone.
type MilestoneInput struct {
	Name        string
	Description string
	TargetDate  time.Time
}

// AttachmentService manages materials, milestones and assignments, each of
// which hangs off exactly one program, project or task. Re-parenting writes
// every FK column in a single statement inside a transaction, so a row never
// holds zero or two parents, even under concurrent requests.
type AttachmentService struct {
	db *gorm.DB
}

func NewAttachmentService(db *gorm.DB) *AttachmentService {
	return &AttachmentService{db: db}
}

// Materials and assignments accept all three parent kinds; milestones are
// restricted to containers.
func milestoneKindAllowed(kind model.ParentKind) bool {
	return kind == model.ParentProgram || kind == model.ParentProject
}

func anyKindAllowed(kind model.ParentKind) bool {
	return kind == model.ParentProgram || kind == model.ParentProject || kind == model.ParentTask
}

func (s *AttachmentService) AddMaterial(ctx context.Context, ownerID uint, parent model.ParentRef, in MaterialInput) (*model.Material, error) {
	if !anyKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "material", Kind: parent.Kind}
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, &model.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if in.CostPerUnit < 0 {
		return nil, &model.ValidationError{Field: "cost_per_unit", Reason: "must not be negative"}
	}

	var created *model.Material
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolveParent(ctx, tx, ownerID, parent); err != nil {
			return err
		}
		material := model.Material{
			Name:        in.Name,
			Description: in.Description,
			Quantity:    quantity,
			Unit:        in.Unit,
			CostPerUnit: in.CostPerUnit,
			Supplier:    in.Supplier,
			Notes:       in.Notes,
		}
		applyParent(&material.ProgramID, &material.ProjectID, &material.TaskID, parent)
		if err := repository.NewMaterialRepository(tx).Create(ctx, &material); err != nil {
			return err
		}
		created = &material
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReparentMaterial atomically replaces the material's single parent.
func (s *AttachmentService) ReparentMaterial(ctx context.Context, ownerID, materialID uint, parent model.ParentRef) (*model.Material, error) {
	if !anyKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "material", Kind: parent.Kind}
	}

	var updated *model.Material
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		materials := repository.NewMaterialRepository(tx)
		material, err := materials.FindByID(ctx, materialID)
		if err != nil {
			return asReferenceErr(err, "material", materialID)
		}
		if err := ownCurrentParent(ctx, tx, ownerID, material.ProgramID, material.ProjectID, material.TaskID, "material", materialID); err != nil {
			return err
		}
		if err := resolveParent(ctx, tx, ownerID, parent); err != nil {
			return err
		}
		if err := materials.SetParent(ctx, materialID, parent); err != nil {
			return err
		}
		applyParent(&material.ProgramID, &material.ProjectID, &material.TaskID, parent)
		updated = material
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AttachmentService) DeleteMaterial(ctx context.Context, ownerID, materialID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		materials := repository.NewMaterialRepository(tx)
		material, err := materials.FindByID(ctx, materialID)
		if err != nil {
			return asReferenceErr(err, "material", materialID)
		}
		if err := ownCurrentParent(ctx, tx, ownerID, material.ProgramID, material.ProjectID, material.TaskID, "material", materialID); err != nil {
			return err
		}
		return materials.Delete(ctx, materialID)
	})
}

// ListMaterials returns the parent's materials in insertion order.
func (s *AttachmentService) ListMaterials(ctx context.Context, ownerID uint, parent model.ParentRef) ([]model.Material, error) {
	if !anyKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "material", Kind: parent.Kind}
	}
	if err := resolveParent(ctx, s.db, ownerID, parent); err != nil {
		return nil, err
	}
	return repository.NewMaterialRepository(s.db).ListByParent(ctx, parent)
}

func (s *AttachmentService) AddMilestone(ctx context.Context, ownerID uint, parent model.ParentRef, in MilestoneInput) (*model.Milestone, error) {
	if !milestoneKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "milestone", Kind: parent.Kind}
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if in.TargetDate.IsZero() {
		return nil, &model.ValidationError{Field: "target_date", Reason: "is required"}
	}

	var created *model.Milestone
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolveParent(ctx, tx, ownerID, parent); err != nil {
			return err
		}
		milestone := model.Milestone{
			Name:        in.Name,
			Description: in.Description,
			TargetDate:  in.TargetDate,
		}
		var unusedTask *uint
		applyParent(&milestone.ProgramID, &milestone.ProjectID, &unusedTask, parent)
		if err := repository.NewMilestoneRepository(tx).Create(ctx, &milestone); err != nil {
			return err
		}
		created = &milestone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReparentMilestone atomically moves the milestone to another program or
// project.
func (s *AttachmentService) ReparentMilestone(ctx context.Context, ownerID, milestoneID uint, parent model.ParentRef) (*model.Milestone, error) {
	if !milestoneKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "milestone", Kind: parent.Kind}
	}

	var updated *model.Milestone
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		milestones := repository.NewMilestoneRepository(tx)
		milestone, err := milestones.FindByID(ctx, milestoneID)
		if err != nil {
			return asReferenceErr(err, "milestone", milestoneID)
		}
		if err := ownCurrentParent(ctx, tx, ownerID, milestone.ProgramID, milestone.ProjectID, nil, "milestone", milestoneID); err != nil {
			return err
		}
		if err := resolveParent(ctx, tx, ownerID, parent); err != nil {
			return err
		}
		if err := milestones.SetParent(ctx, milestoneID, parent); err != nil {
			return err
		}
		var unusedTask *uint
		applyParent(&milestone.ProgramID, &milestone.ProjectID, &unusedTask, parent)
		updated = milestone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleMilestone flips the achieved flag, stamping or clearing the achieved
// date.
func (s *AttachmentService) ToggleMilestone(ctx context.Context, ownerID, milestoneID uint, now time.Time) (*model.Milestone, error) {
	var updated *model.Milestone
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		milestones := repository.NewMilestoneRepository(tx)
		milestone, err := milestones.FindByID(ctx, milestoneID)
		if err != nil {
			return asReferenceErr(err, "milestone", milestoneID)
		}
		if err := ownCurrentParent(ctx, tx, ownerID, milestone.ProgramID, milestone.ProjectID, nil, "milestone", milestoneID); err != nil {
			return err
		}

		fields := map[string]interface{}{"achieved": !milestone.Achieved}
		if milestone.Achieved {
			fields["achieved_date"] = nil
			milestone.AchievedDate = nil
		} else {
			day := now.Truncate(24 * time.Hour)
			fields["achieved_date"] = day
			milestone.AchievedDate = &day
		}
		if err := milestones.Updates(ctx, milestoneID, fields); err != nil {
			return err
		}
		milestone.Achieved = !milestone.Achieved
		updated = milestone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AttachmentService) DeleteMilestone(ctx context.Context, ownerID, milestoneID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		milestones := repository.NewMilestoneRepository(tx)
		milestone, err := milestones.FindByID(ctx, milestoneID)
		if err != nil {
			return asReferenceErr(err, "milestone", milestoneID)
		}
		if err := ownCurrentParent(ctx, tx, ownerID, milestone.ProgramID, milestone.ProjectID, nil, "milestone", milestoneID); err != nil {
			return err
		}
		return milestones.Delete(ctx, milestoneID)
	})
}

// ListMilestones returns the parent's milestones in insertion order.
func (s *AttachmentService) ListMilestones(ctx context.Context, ownerID uint, parent model.ParentRef) ([]model.Milestone, error) {
	if !milestoneKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "milestone", Kind: parent.Kind}
	}
	if err := resolveParent(ctx, s.db, ownerID, parent); err != nil {
		return nil, err
	}
	return repository.NewMilestoneRepository(s.db).ListByParent(ctx, parent)
}

// AssignContact attaches a contact to a program, project or task. The same
// contact cannot be assigned twice to the same parent.
func (s *AttachmentService) AssignContact(ctx context.Context, ownerID, contactID uint, parent model.ParentRef) (*model.Assignment, error) {
	if !anyKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "assignment", Kind: parent.Kind}
	}

	var created *model.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewContactRepository(tx).FindOwned(ctx, ownerID, contactID); err != nil {
			return asReferenceErr(err, "contact", contactID)
		}
		if err := resolveParent(ctx, tx, ownerID, parent); err != nil {
			return err
		}

		assignments := repository.NewAssignmentRepository(tx)
		exists, err := assignments.Exists(ctx, contactID, parent)
		if err != nil {
			return err
		}
		if exists {
			return &model.DuplicateAssignmentError{ContactID: contactID, Parent: parent}
		}

		assignment := model.Assignment{ContactID: contactID}
		applyParent(&assignment.ProgramID, &assignment.ProjectID, &assignment.TaskID, parent)
		if err := assignments.Create(ctx, &assignment); err != nil {
			return err
		}
		created = &assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReparentAssignment atomically moves an assignment to another parent,
// subject to the same duplicate check as a fresh assignment.
func (s *AttachmentService) ReparentAssignment(ctx context.Context, ownerID, assignmentID uint, parent model.ParentRef) (*model.Assignment, error) {
	if !anyKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "assignment", Kind: parent.Kind}
	}

	var updated *model.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignments := repository.NewAssignmentRepository(tx)
		assignment, err := assignments.FindByID(ctx, assignmentID)
		if err != nil {
			return asReferenceErr(err, "assignment", assignmentID)
		}
		if err := ownCurrentParent(ctx, tx, ownerID, assignment.ProgramID, assignment.ProjectID, assignment.TaskID, "assignment", assignmentID); err != nil {
			return err
		}
		if err := resolveParent(ctx, tx, ownerID, parent); err != nil {
			return err
		}
		exists, err := assignments.Exists(ctx, assignment.ContactID, parent)
		if err != nil {
			return err
		}
		if exists {
			return &model.DuplicateAssignmentError{ContactID: assignment.ContactID, Parent: parent}
		}
		if err := assignments.SetParent(ctx, assignmentID, parent); err != nil {
			return err
		}
		applyParent(&assignment.ProgramID, &assignment.ProjectID, &assignment.TaskID, parent)
		updated = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AttachmentService) DeleteAssignment(ctx context.Context, ownerID, assignmentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignments := repository.NewAssignmentRepository(tx)
		assignment, err := assignments.FindByID(ctx, assignmentID)
		if err != nil {
			return asReferenceErr(err, "assignment", assignmentID)
		}
		if err := ownCurrentParent(ctx, tx, ownerID, assignment.ProgramID, assignment.ProjectID, assignment.TaskID, "assignment", assignmentID); err != nil {
			return err
		}
		return assignments.Delete(ctx, assignmentID)
	})
}

// ListAssignments returns the parent's assignments in insertion order.
func (s *AttachmentService) ListAssignments(ctx context.Context, ownerID uint, parent model.ParentRef) ([]model.Assignment, error) {
	if !anyKindAllowed(parent.Kind) {
		return nil, &model.InvalidParentKindError{Entity: "assignment", Kind: parent.Kind}
	}
	if err := resolveParent(ctx, s.db, ownerID, parent); err != nil {
		return nil, err
	}
	return repository.NewAssignmentRepository(s.db).ListByParent(ctx, parent)
}

// resolveParent confirms the parent exists and sits in the owner's chain:
// programs and projects carry the owner directly, tasks inherit it from
// their project.
func resolveParent(ctx context.Context, tx *gorm.DB, ownerID uint, ref model.ParentRef) error {
	switch ref.Kind {
	case model.ParentProgram:
		_, err := repository.NewProgramRepository(tx).FindOwned(ctx, ownerID, ref.ID)
		return asReferenceErr(err, "program", ref.ID)
	case model.ParentProject:
		_, err := repository.NewProjectRepository(tx).FindOwned(ctx, ownerID, ref.ID)
		return asReferenceErr(err, "project", ref.ID)
	default:
		_, _, err := findOwnedTask(ctx, tx, ownerID, ref.ID)
		return err
	}
}

// ownCurrentParent checks that the row's existing parent belongs to the
// caller; a foreign attachment is reported as missing.
func ownCurrentParent(ctx context.Context, tx *gorm.DB, ownerID uint, programID, projectID, taskID *uint, entity string, id uint) error {
	ref, ok := model.RefFromColumns(programID, projectID, taskID)
	if !ok {
		return &model.ReferenceError{Entity: entity, ID: id}
	}
	if err := resolveParent(ctx, tx, ownerID, ref); err != nil {
		return &model.ReferenceError{Entity: entity, ID: id}
	}
	return nil
}

// applyParent mirrors ParentRef.Columns onto the in-memory struct fields.
func applyParent(programID, projectID, taskID **uint, ref model.ParentRef) {
	*programID, *projectID, *taskID = nil, nil, nil
	id := ref.ID
	switch ref.Kind {
	case model.ParentProgram:
		*programID = &id
	case model.ParentProject:
		*projectID = &id
	case model.ParentTask:
		*taskID = &id
	}
}
