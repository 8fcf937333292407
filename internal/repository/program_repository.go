package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// ProgramRepository handles CRUD for programs.
type ProgramRepository struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

func (r *ProgramRepository) Create(ctx context.Context, program *model.Program) error {
	if err := r.db.WithContext(ctx).Create(program).Error; err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

func (r *ProgramRepository) FindOwned(ctx context.Context, ownerID, id uint) (*model.Program, error) {
	var program model.Program
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).
		First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// FindTree loads a program with its projects and their tasks.
func (r *ProgramRepository) FindTree(ctx context.Context, ownerID, id uint) (*model.Program, error) {
	var program model.Program
	if err := r.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("projects.id ASC") }).
		Preload("Projects.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id ASC") }).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Program, error) {
	var programs []model.Program
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("id ASC").Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func (r *ProgramRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Program{}).Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return nil
}

func (r *ProgramRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Program{}, id).Error; err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return nil
}
