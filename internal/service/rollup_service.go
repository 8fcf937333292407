package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// Rollup holds the derived values of a container entity. None of them are
// ever stored; they are recomputed from the subtree on every read, which
// makes a rollup read immediately after a write reflect that write.
type Rollup struct {
	TotalCost      float64
	Progress       float64
	EffectiveStart *time.Time
	EffectiveEnd   *time.Time
}

// ProgramSummary is a program together with its rollup.
type ProgramSummary struct {
	Program model.Program
	Rollup
}

// ProjectSummary is a project together with its rollup.
type ProjectSummary struct {
	Project model.Project
	Rollup
}

// RollupService walks a subtree and aggregates cost, progress and dates.
// Reads run inside a read-only transaction so a concurrent structural write
// cannot produce a half-updated subtree.
type RollupService struct {
	db *gorm.DB
}

func NewRollupService(db *gorm.DB) *RollupService {
	return &RollupService{db: db}
}

// GetProgramSummary aggregates over the program, every project in it and
// every task under those projects. A project with no tasks counts as 0
// progress in the program average.
func (s *RollupService) GetProgramSummary(ctx context.Context, ownerID, programID uint) (*ProgramSummary, error) {
	var summary *ProgramSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		program, err := repository.NewProgramRepository(tx).FindTree(ctx, ownerID, programID)
		if err != nil {
			return asReferenceErr(err, "program", programID)
		}

		var projectIDs, taskIDs []uint
		span := program.Range()
		var progressSum float64
		for _, project := range program.Projects {
			projectIDs = append(projectIDs, project.ID)
			span = span.Union(project.Range())
			progressSum += meanTaskProgress(project.Tasks)
			for _, task := range project.Tasks {
				taskIDs = append(taskIDs, task.ID)
				span = span.Union(task.Range())
			}
		}

		materials, err := repository.NewMaterialRepository(tx).ListForSubtree(ctx, programID, projectIDs, taskIDs)
		if err != nil {
			return err
		}

		progress := 0.0
		if len(program.Projects) > 0 {
			progress = progressSum / float64(len(program.Projects))
		}

		summary = &ProgramSummary{
			Program: *program,
			Rollup: Rollup{
				TotalCost:      sumCost(materials),
				Progress:       progress,
				EffectiveStart: span.Start,
				EffectiveEnd:   span.End,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// GetProjectSummary aggregates over the project and its tasks.
func (s *RollupService) GetProjectSummary(ctx context.Context, ownerID, projectID uint) (*ProjectSummary, error) {
	var summary *ProjectSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := repository.NewProjectRepository(tx).FindTree(ctx, ownerID, projectID)
		if err != nil {
			return asReferenceErr(err, "project", projectID)
		}

		var taskIDs []uint
		span := project.Range()
		for _, task := range project.Tasks {
			taskIDs = append(taskIDs, task.ID)
			span = span.Union(task.Range())
		}

		materials, err := repository.NewMaterialRepository(tx).ListForSubtree(ctx, 0, []uint{projectID}, taskIDs)
		if err != nil {
			return err
		}

		summary = &ProjectSummary{
			Project: *project,
			Rollup: Rollup{
				TotalCost:      sumCost(materials),
				Progress:       meanTaskProgress(project.Tasks),
				EffectiveStart: span.Start,
				EffectiveEnd:   span.End,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func meanTaskProgress(tasks []model.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	sum := 0
	for _, task := range tasks {
		sum += task.Progress
	}
	return float64(sum) / float64(len(tasks))
}

func sumCost(materials []model.Material) float64 {
	total := 0.0
	for _, m := range materials {
		total += m.TotalCost()
	}
	return total
}
