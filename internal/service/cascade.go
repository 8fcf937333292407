package service

import (
	"context"

	"gorm.io/gorm"

	"project-planner/internal/repository"
)

// Delete operations walk the dependency graph explicitly inside one
// transaction instead of leaning on storage-engine cascade triggers, so the
// policy stays visible and testable. Deleting a program takes its projects
// with it, including projects that could have stood alone; detach-and-keep
// was considered and rejected (see DESIGN.md).

// DeleteTask removes the task and its directly attached materials and
// assignments.
func (s *HierarchyService) DeleteTask(ctx context.Context, ownerID, taskID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := findOwnedTask(ctx, tx, ownerID, taskID); err != nil {
			return err
		}
		return deleteTaskRows(ctx, tx, []uint{taskID})
	})
}

// DeleteProject removes the project, its tasks with their cascades, and its
// direct materials, milestones and assignments.
func (s *HierarchyService) DeleteProject(ctx context.Context, ownerID, projectID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewProjectRepository(tx).FindOwned(ctx, ownerID, projectID); err != nil {
			return asReferenceErr(err, "project", projectID)
		}
		return deleteProjectRows(ctx, tx, []uint{projectID})
	})
}

// DeleteProgram removes the program, every project referencing it (and their
// cascades), and the program's direct attachments.
func (s *HierarchyService) DeleteProgram(ctx context.Context, ownerID, programID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewProgramRepository(tx).FindOwned(ctx, ownerID, programID); err != nil {
			return asReferenceErr(err, "program", programID)
		}

		projects, err := repository.NewProjectRepository(tx).ListByProgram(ctx, programID)
		if err != nil {
			return err
		}
		projectIDs := make([]uint, 0, len(projects))
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
		if err := deleteProjectRows(ctx, tx, projectIDs); err != nil {
			return err
		}

		if err := repository.NewMaterialRepository(tx).DeleteForProgram(ctx, programID); err != nil {
			return err
		}
		if err := repository.NewMilestoneRepository(tx).DeleteForProgram(ctx, programID); err != nil {
			return err
		}
		if err := repository.NewAssignmentRepository(tx).DeleteForProgram(ctx, programID); err != nil {
			return err
		}
		return repository.NewProgramRepository(tx).Delete(ctx, programID)
	})
}

func deleteProjectRows(ctx context.Context, tx *gorm.DB, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return nil
	}

	tasks, err := repository.NewTaskRepository(tx).ListByProjects(ctx, projectIDs)
	if err != nil {
		return err
	}
	taskIDs := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	if err := deleteTaskRows(ctx, tx, taskIDs); err != nil {
		return err
	}

	if err := repository.NewMaterialRepository(tx).DeleteForProjects(ctx, projectIDs); err != nil {
		return err
	}
	if err := repository.NewMilestoneRepository(tx).DeleteForProjects(ctx, projectIDs); err != nil {
		return err
	}
	if err := repository.NewAssignmentRepository(tx).DeleteForProjects(ctx, projectIDs); err != nil {
		return err
	}
	return repository.NewProjectRepository(tx).DeleteByIDs(ctx, projectIDs)
}

func deleteTaskRows(ctx context.Context, tx *gorm.DB, taskIDs []uint) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := repository.NewMaterialRepository(tx).DeleteForTasks(ctx, taskIDs); err != nil {
		return err
	}
	if err := repository.NewAssignmentRepository(tx).DeleteForTasks(ctx, taskIDs); err != nil {
		return err
	}
	return repository.NewTaskRepository(tx).DeleteByIDs(ctx, taskIDs)
}
