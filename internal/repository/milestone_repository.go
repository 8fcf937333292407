package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// MilestoneRepository handles CRUD for milestones.
type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Create(ctx context.Context, milestone *model.Milestone) error {
	if err := r.db.WithContext(ctx).Create(milestone).Error; err != nil {
		return fmt.Errorf("create milestone: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) FindByID(ctx context.Context, id uint) (*model.Milestone, error) {
	var milestone model.Milestone
	if err := r.db.WithContext(ctx).First(&milestone, id).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *MilestoneRepository) ListByParent(ctx context.Context, ref model.ParentRef) ([]model.Milestone, error) {
	cond, id := parentCondition(ref)
	var milestones []model.Milestone
	if err := r.db.WithContext(ctx).Where(cond, id).Order("id ASC").
		Find(&milestones).Error; err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return milestones, nil
}

// ListPendingByOwner returns unachieved milestones due at or before the
// cutoff, across the owner's programs and projects.
func (r *MilestoneRepository) ListPendingByOwner(ctx context.Context, ownerID uint, until time.Time) ([]model.Milestone, error) {
	var milestones []model.Milestone
	if err := r.db.WithContext(ctx).
		Joins("LEFT JOIN programs ON programs.id = milestones.program_id").
		Joins("LEFT JOIN projects ON projects.id = milestones.project_id").
		Where("(programs.owner_id = ? OR projects.owner_id = ?) AND milestones.achieved = ? AND milestones.target_date <= ?",
			ownerID, ownerID, false, until).
		Order("milestones.target_date ASC").
		Find(&milestones).Error; err != nil {
		return nil, fmt.Errorf("list pending milestones: %w", err)
	}
	return milestones, nil
}

// SetParent rewrites both FK columns in a single statement.
func (r *MilestoneRepository) SetParent(ctx context.Context, id uint, ref model.ParentRef) error {
	cols := ref.Columns()
	delete(cols, "task_id") // milestones have no task column
	if err := r.db.WithContext(ctx).Model(&model.Milestone{}).Where("id = ?", id).
		Updates(cols).Error; err != nil {
		return fmt.Errorf("reparent milestone: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Milestone{}).Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Milestone{}, id).Error; err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) DeleteForProgram(ctx context.Context, programID uint) error {
	if err := r.db.WithContext(ctx).Where("program_id = ?", programID).
		Delete(&model.Milestone{}).Error; err != nil {
		return fmt.Errorf("delete program milestones: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) DeleteForProjects(ctx context.Context, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).
		Delete(&model.Milestone{}).Error; err != nil {
		return fmt.Errorf("delete project milestones: %w", err)
	}
	return nil
}
