package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// AssignmentRepository handles contact-to-entity assignments.
type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) ListByParent(ctx context.Context, ref model.ParentRef) ([]model.Assignment, error) {
	cond, id := parentCondition(ref)
	var assignments []model.Assignment
	if err := r.db.WithContext(ctx).Where(cond, id).Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// Exists reports whether the contact is already assigned to that parent.
func (r *AssignmentRepository) Exists(ctx context.Context, contactID uint, ref model.ParentRef) (bool, error) {
	cond, id := parentCondition(ref)
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("contact_id = ?", contactID).Where(cond, id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return count > 0, nil
}

func (r *AssignmentRepository) CountByContact(ctx context.Context, contactID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("contact_id = ?", contactID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count contact assignments: %w", err)
	}
	return count, nil
}

// SetParent rewrites all three FK columns in a single statement.
func (r *AssignmentRepository) SetParent(ctx context.Context, id uint, ref model.ParentRef) error {
	if err := r.db.WithContext(ctx).Model(&model.Assignment{}).Where("id = ?", id).
		Updates(ref.Columns()).Error; err != nil {
		return fmt.Errorf("reparent assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Assignment{}, id).Error; err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) DeleteByContact(ctx context.Context, contactID uint) error {
	if err := r.db.WithContext(ctx).Where("contact_id = ?", contactID).
		Delete(&model.Assignment{}).Error; err != nil {
		return fmt.Errorf("delete contact assignments: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) DeleteForProgram(ctx context.Context, programID uint) error {
	if err := r.db.WithContext(ctx).Where("program_id = ?", programID).
		Delete(&model.Assignment{}).Error; err != nil {
		return fmt.Errorf("delete program assignments: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) DeleteForProjects(ctx context.Context, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).
		Delete(&model.Assignment{}).Error; err != nil {
		return fmt.Errorf("delete project assignments: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) DeleteForTasks(ctx context.Context, taskIDs []uint) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("task_id IN ?", taskIDs).
		Delete(&model.Assignment{}).Error; err != nil {
		return fmt.Errorf("delete task assignments: %w", err)
	}
	return nil
}
