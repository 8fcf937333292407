package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// ProjectRepository handles CRUD for projects.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindOwned(ctx context.Context, ownerID, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindTree loads a project with its tasks.
func (r *ProjectRepository) FindTree(ctx context.Context, ownerID, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id ASC") }).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) ListByProgram(ctx context.Context, programID uint) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Where("program_id = ?", programID).
		Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list program projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&model.Project{}, ids).Error; err != nil {
		return fmt.Errorf("delete projects: %w", err)
	}
	return nil
}
