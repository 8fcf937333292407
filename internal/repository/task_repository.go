package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).
		Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListByProjects(ctx context.Context, projectIDs []uint) ([]model.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs).
		Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListDueByOwner returns unfinished tasks with an end date at or before the
// cutoff, across every project the owner holds.
func (r *TaskRepository) ListDueByOwner(ctx context.Context, ownerID uint, until time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.owner_id = ? AND tasks.progress < 100 AND tasks.end_date IS NOT NULL AND tasks.end_date <= ?",
			ownerID, until).
		Order("tasks.end_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, ids).Error; err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}
