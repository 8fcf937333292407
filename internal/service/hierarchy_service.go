package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// ProgramInput carries the writable fields of a program.
type ProgramInput struct {
	Name        string
	Description string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectInput carries the writable fields of a project. A nil ProgramID
// makes the project standalone.
type ProjectInput struct {
	Name        string
	Description string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	ProgramID   *uint
}

// TaskInput carries the writable fields of a task. Progress is set through
// SetTaskProgress, never here; new tasks start at 0.
type TaskInput struct {
	Name        string
	Description string
	Status      string
	Priority    model.Priority
	StartDate   *time.Time
	EndDate     *time.Time
}

// HierarchyService maintains the program/project/task nesting and its date
// containment rules. Every mutation runs inside one transaction so a check
// never passes against state another request has already changed.
type HierarchyService struct {
	db *gorm.DB
}

func NewHierarchyService(db *gorm.DB) *HierarchyService {
	return &HierarchyService{db: db}
}

func (s *HierarchyService) CreateProgram(ctx context.Context, ownerID uint, in ProgramInput) (*model.Program, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	status, err := containerStatus(in.Status)
	if err != nil {
		return nil, err
	}
	r := model.DateRange{Start: in.StartDate, End: in.EndDate}
	if r.Inverted() {
		return nil, &model.DateRangeError{Entity: "program", Reason: "end date precedes start date"}
	}

	program := model.Program{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := repository.NewProgramRepository(s.db).Create(ctx, &program); err != nil {
		return nil, err
	}
	return &program, nil
}

// UpdateProgram rejects the whole edit when the new date range would no
// longer contain an existing child project.
func (s *HierarchyService) UpdateProgram(ctx context.Context, ownerID, programID uint, in ProgramInput) (*model.Program, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	status, err := containerStatus(in.Status)
	if err != nil {
		return nil, err
	}
	newRange := model.DateRange{Start: in.StartDate, End: in.EndDate}
	if newRange.Inverted() {
		return nil, &model.DateRangeError{Entity: "program", Reason: "end date precedes start date"}
	}

	var updated *model.Program
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		programs := repository.NewProgramRepository(tx)
		program, err := programs.FindOwned(ctx, ownerID, programID)
		if err != nil {
			return asReferenceErr(err, "program", programID)
		}

		children, err := repository.NewProjectRepository(tx).ListByProgram(ctx, programID)
		if err != nil {
			return err
		}
		for _, child := range children {
			if !child.Range().Within(newRange) {
				return &model.DateRangeError{
					Entity: "program",
					Reason: "new range no longer contains project " + child.Name,
				}
			}
		}

		if err := programs.Updates(ctx, programID, map[string]interface{}{
			"name":        in.Name,
			"description": in.Description,
			"status":      status,
			"start_date":  in.StartDate,
			"end_date":    in.EndDate,
		}); err != nil {
			return err
		}

		program.Name = in.Name
		program.Description = in.Description
		program.Status = status
		program.StartDate = in.StartDate
		program.EndDate = in.EndDate
		updated = program
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *HierarchyService) CreateProject(ctx context.Context, ownerID uint, in ProjectInput) (*model.Project, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	status, err := containerStatus(in.Status)
	if err != nil {
		return nil, err
	}
	r := model.DateRange{Start: in.StartDate, End: in.EndDate}
	if r.Inverted() {
		return nil, &model.DateRangeError{Entity: "project", Reason: "end date precedes start date"}
	}

	var created *model.Project
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ProgramID != nil {
			program, err := repository.NewProgramRepository(tx).FindOwned(ctx, ownerID, *in.ProgramID)
			if err != nil {
				return asReferenceErr(err, "program", *in.ProgramID)
			}
			if !r.Within(program.Range()) {
				return &model.DateRangeError{Entity: "project", Reason: "range escapes program range"}
			}
		}

		project := model.Project{
			OwnerID:     ownerID,
			ProgramID:   in.ProgramID,
			Name:        in.Name,
			Description: in.Description,
			Status:      status,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
		}
		if err := repository.NewProjectRepository(tx).Create(ctx, &project); err != nil {
			return err
		}
		created = &project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateProject covers date edits and reparenting. The edit is checked as a
// whole: the new range must fit the (possibly new) parent program and must
// still contain every existing task, otherwise nothing is applied.
func (s *HierarchyService) UpdateProject(ctx context.Context, ownerID, projectID uint, in ProjectInput) (*model.Project, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	status, err := containerStatus(in.Status)
	if err != nil {
		return nil, err
	}
	newRange := model.DateRange{Start: in.StartDate, End: in.EndDate}
	if newRange.Inverted() {
		return nil, &model.DateRangeError{Entity: "project", Reason: "end date precedes start date"}
	}

	var updated *model.Project
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := repository.NewProjectRepository(tx)
		project, err := projects.FindOwned(ctx, ownerID, projectID)
		if err != nil {
			return asReferenceErr(err, "project", projectID)
		}

		if in.ProgramID != nil {
			program, err := repository.NewProgramRepository(tx).FindOwned(ctx, ownerID, *in.ProgramID)
			if err != nil {
				return asReferenceErr(err, "program", *in.ProgramID)
			}
			if !newRange.Within(program.Range()) {
				return &model.DateRangeError{Entity: "project", Reason: "range escapes program range"}
			}
		}

		tasks, err := repository.NewTaskRepository(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if !task.Range().Within(newRange) {
				return &model.DateRangeError{
					Entity: "project",
					Reason: "new range no longer contains task " + task.Name,
				}
			}
		}

		if err := projects.Updates(ctx, projectID, map[string]interface{}{
			"program_id":  in.ProgramID,
			"name":        in.Name,
			"description": in.Description,
			"status":      status,
			"start_date":  in.StartDate,
			"end_date":    in.EndDate,
		}); err != nil {
			return err
		}

		project.ProgramID = in.ProgramID
		project.Name = in.Name
		project.Description = in.Description
		project.Status = status
		project.StartDate = in.StartDate
		project.EndDate = in.EndDate
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *HierarchyService) CreateTask(ctx context.Context, ownerID, projectID uint, in TaskInput) (*model.Task, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	priority, err := taskPriority(in.Priority)
	if err != nil {
		return nil, err
	}
	status, err := taskStatus(in.Status)
	if err != nil {
		return nil, err
	}
	r := model.DateRange{Start: in.StartDate, End: in.EndDate}
	if r.Inverted() {
		return nil, &model.DateRangeError{Entity: "task", Reason: "end date precedes start date"}
	}

	var created *model.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := repository.NewProjectRepository(tx).FindOwned(ctx, ownerID, projectID)
		if err != nil {
			return asReferenceErr(err, "project", projectID)
		}
		if !r.Within(project.Range()) {
			return &model.DateRangeError{Entity: "task", Reason: "range escapes project range"}
		}

		task := model.Task{
			ProjectID:   projectID,
			Name:        in.Name,
			Description: in.Description,
			Status:      status,
			Priority:    priority,
			Progress:    0,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
		}
		if err := repository.NewTaskRepository(tx).Create(ctx, &task); err != nil {
			return err
		}
		created = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *HierarchyService) UpdateTask(ctx context.Context, ownerID, taskID uint, in TaskInput) (*model.Task, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	priority, err := taskPriority(in.Priority)
	if err != nil {
		return nil, err
	}
	status, err := taskStatus(in.Status)
	if err != nil {
		return nil, err
	}
	newRange := model.DateRange{Start: in.StartDate, End: in.EndDate}
	if newRange.Inverted() {
		return nil, &model.DateRangeError{Entity: "task", Reason: "end date precedes start date"}
	}

	var updated *model.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := repository.NewTaskRepository(tx)
		task, project, err := findOwnedTask(ctx, tx, ownerID, taskID)
		if err != nil {
			return err
		}
		if !newRange.Within(project.Range()) {
			return &model.DateRangeError{Entity: "task", Reason: "range escapes project range"}
		}

		if err := tasks.Updates(ctx, taskID, map[string]interface{}{
			"name":        in.Name,
			"description": in.Description,
			"status":      status,
			"priority":    priority,
			"start_date":  in.StartDate,
			"end_date":    in.EndDate,
		}); err != nil {
			return err
		}

		task.Name = in.Name
		task.Description = in.Description
		task.Status = status
		task.Priority = priority
		task.StartDate = in.StartDate
		task.EndDate = in.EndDate
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetTaskProgress records progress on a task; container progress is always
// derived from here at read time.
func (s *HierarchyService) SetTaskProgress(ctx context.Context, ownerID, taskID uint, progress int) (*model.Task, error) {
	if progress < 0 || progress > 100 {
		return nil, &model.ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}

	var updated *model.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, _, err := findOwnedTask(ctx, tx, ownerID, taskID)
		if err != nil {
			return err
		}
		if err := repository.NewTaskRepository(tx).Updates(ctx, taskID, map[string]interface{}{
			"progress": progress,
		}); err != nil {
			return err
		}
		task.Progress = progress
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetProgramTree returns the program with its projects and their tasks.
func (s *HierarchyService) GetProgramTree(ctx context.Context, ownerID, programID uint) (*model.Program, error) {
	program, err := repository.NewProgramRepository(s.db).FindTree(ctx, ownerID, programID)
	if err != nil {
		return nil, asReferenceErr(err, "program", programID)
	}
	return program, nil
}

// GetProjectTree returns the project with its tasks.
func (s *HierarchyService) GetProjectTree(ctx context.Context, ownerID, projectID uint) (*model.Project, error) {
	project, err := repository.NewProjectRepository(s.db).FindTree(ctx, ownerID, projectID)
	if err != nil {
		return nil, asReferenceErr(err, "project", projectID)
	}
	return project, nil
}

// findOwnedTask resolves a task through its project's owner. A task whose
// project belongs to someone else is reported as missing, not as forbidden.
func findOwnedTask(ctx context.Context, tx *gorm.DB, ownerID, taskID uint) (*model.Task, *model.Project, error) {
	task, err := repository.NewTaskRepository(tx).FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, asReferenceErr(err, "task", taskID)
	}
	project, err := repository.NewProjectRepository(tx).FindOwned(ctx, ownerID, task.ProjectID)
	if err != nil {
		return nil, nil, asReferenceErr(err, "task", taskID)
	}
	return task, project, nil
}

func asReferenceErr(err error, entity string, id uint) error {
	if repository.IsNotFound(err) {
		return &model.ReferenceError{Entity: entity, ID: id}
	}
	return err
}

func validateName(name string) error {
	if name == "" {
		return &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

func containerStatus(status string) (string, error) {
	switch status {
	case "":
		return model.StatusPlanning, nil
	case model.StatusPlanning, model.StatusActive, model.StatusCompleted, model.StatusOnHold:
		return status, nil
	}
	return "", &model.ValidationError{Field: "status", Reason: "unknown status " + status}
}

func taskStatus(status string) (string, error) {
	switch status {
	case "":
		return model.TaskNotStarted, nil
	case model.TaskNotStarted, model.TaskInProgress, model.TaskCompleted, model.TaskBlocked:
		return status, nil
	}
	return "", &model.ValidationError{Field: "status", Reason: "unknown status " + status}
}

func taskPriority(priority model.Priority) (model.Priority, error) {
	if priority == "" {
		return model.PriorityMedium, nil
	}
	if priority.Rank() < 0 {
		return "", &model.ValidationError{Field: "priority", Reason: "unknown priority " + string(priority)}
	}
	return priority, nil
}
