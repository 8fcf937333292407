package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// MaterialRepository handles CRUD for materials.
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(ctx context.Context, material *model.Material) error {
	if err := r.db.WithContext(ctx).Create(material).Error; err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

func (r *MaterialRepository) FindByID(ctx context.Context, id uint) (*model.Material, error) {
	var material model.Material
	if err := r.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) ListByParent(ctx context.Context, ref model.ParentRef) ([]model.Material, error) {
	cond, id := parentCondition(ref)
	var materials []model.Material
	if err := r.db.WithContext(ctx).Where(cond, id).Order("id ASC").
		Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}

// ListForSubtree returns every material attached to the program (may be 0),
// any of the projects, or any of the tasks, in one query.
func (r *MaterialRepository) ListForSubtree(ctx context.Context, programID uint, projectIDs, taskIDs []uint) ([]model.Material, error) {
	db := r.db.WithContext(ctx).Model(&model.Material{})
	cond := "1 = 0"
	args := []interface{}{}
	if programID != 0 {
		cond += " OR program_id = ?"
		args = append(args, programID)
	}
	if len(projectIDs) > 0 {
		cond += " OR project_id IN ?"
		args = append(args, projectIDs)
	}
	if len(taskIDs) > 0 {
		cond += " OR task_id IN ?"
		args = append(args, taskIDs)
	}
	var materials []model.Material
	if err := db.Where(cond, args...).Order("id ASC").Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("list subtree materials: %w", err)
	}
	return materials, nil
}

// SetParent rewrites all three FK columns in a single statement so the row
// never holds zero or two parents.
func (r *MaterialRepository) SetParent(ctx context.Context, id uint, ref model.ParentRef) error {
	if err := r.db.WithContext(ctx).Model(&model.Material{}).Where("id = ?", id).
		Updates(ref.Columns()).Error; err != nil {
		return fmt.Errorf("reparent material: %w", err)
	}
	return nil
}

func (r *MaterialRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Material{}).Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

func (r *MaterialRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Material{}, id).Error; err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}

func (r *MaterialRepository) DeleteForProgram(ctx context.Context, programID uint) error {
	if err := r.db.WithContext(ctx).Where("program_id = ?", programID).
		Delete(&model.Material{}).Error; err != nil {
		return fmt.Errorf("delete program materials: %w", err)
	}
	return nil
}

func (r *MaterialRepository) DeleteForProjects(ctx context.Context, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).
		Delete(&model.Material{}).Error; err != nil {
		return fmt.Errorf("delete project materials: %w", err)
	}
	return nil
}

func (r *MaterialRepository) DeleteForTasks(ctx context.Context, taskIDs []uint) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("task_id IN ?", taskIDs).
		Delete(&model.Material{}).Error; err != nil {
		return fmt.Errorf("delete task materials: %w", err)
	}
	return nil
}
