package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"project-planner/internal/model"
)

func TestCreateProjectInsideProgram(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, owner.ID, ProgramInput{
		Name:      "Rollout",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.December, 31),
	})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	project, err := svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Phase one",
		ProgramID: &program.ID,
		StartDate: date(2026, time.February, 1),
		EndDate:   date(2026, time.June, 30),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.ProgramID == nil || *project.ProgramID != program.ID {
		t.Fatalf("project not linked to program")
	}
	if project.Status != model.StatusPlanning {
		t.Fatalf("status = %q, want default %q", project.Status, model.StatusPlanning)
	}
}

func TestCreateProjectEscapingProgramRange(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, owner.ID, ProgramInput{
		Name:      "Rollout",
		StartDate: date(2026, time.March, 1),
		EndDate:   date(2026, time.June, 30),
	})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	_, err = svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Too early",
		ProgramID: &program.ID,
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.April, 1),
	})
	var dateErr *model.DateRangeError
	if !errors.As(err, &dateErr) {
		t.Fatalf("err = %v, want DateRangeError", err)
	}
}

func TestCreateProjectForeignProgram(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, alice.ID, ProgramInput{Name: "Private"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	_, err = svc.CreateProject(ctx, bob.ID, ProjectInput{Name: "Sneaky", ProgramID: &program.ID})
	var refErr *model.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("err = %v, want ReferenceError", err)
	}
}

func TestCreateTaskDefaultsAndContainment(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Build",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.March, 31),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	task, err := svc.CreateTask(ctx, owner.ID, project.ID, TaskInput{
		Name:      "Dig foundation",
		StartDate: date(2026, time.January, 10),
		EndDate:   date(2026, time.February, 10),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Progress != 0 {
		t.Fatalf("progress = %d, want 0", task.Progress)
	}
	if task.Priority != model.PriorityMedium {
		t.Fatalf("priority = %q, want default medium", task.Priority)
	}

	_, err = svc.CreateTask(ctx, owner.ID, project.ID, TaskInput{
		Name:      "Too late",
		StartDate: date(2026, time.March, 1),
		EndDate:   date(2026, time.April, 30),
	})
	var dateErr *model.DateRangeError
	if !errors.As(err, &dateErr) {
		t.Fatalf("err = %v, want DateRangeError", err)
	}

	_, err = svc.CreateTask(ctx, owner.ID, 9999, TaskInput{Name: "Orphan"})
	var refErr *model.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("err = %v, want ReferenceError", err)
	}
}

func TestUnboundedDatesNeverViolateContainment(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	// Program with no dates at all: any child range fits.
	program, err := svc.CreateProgram(ctx, owner.ID, ProgramInput{Name: "Open-ended"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	if _, err := svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Anywhere",
		ProgramID: &program.ID,
		StartDate: date(2020, time.January, 1),
		EndDate:   date(2030, time.January, 1),
	}); err != nil {
		t.Fatalf("create project under unbounded program: %v", err)
	}

	// Project with only a start bound: child end is unconstrained.
	project, err := svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Half open",
		StartDate: date(2026, time.January, 1),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := svc.CreateTask(ctx, owner.ID, project.ID, TaskInput{
		Name:    "Runs long",
		EndDate: date(2040, time.January, 1),
	}); err != nil {
		t.Fatalf("create task with open end: %v", err)
	}
}

func TestSetTaskProgressValidation(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, owner.ID, ProjectInput{Name: "Build"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := svc.CreateTask(ctx, owner.ID, project.ID, TaskInput{Name: "Work"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	for _, bad := range []int{-1, 101} {
		_, err := svc.SetTaskProgress(ctx, owner.ID, task.ID, bad)
		var valErr *model.ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("progress %d: err = %v, want ValidationError", bad, err)
		}
	}

	updated, err := svc.SetTaskProgress(ctx, owner.ID, task.ID, 60)
	if err != nil {
		t.Fatalf("set progress: %v", err)
	}
	if updated.Progress != 60 {
		t.Fatalf("progress = %d, want 60", updated.Progress)
	}
}

func TestUpdateProjectRejectedWholeWhenTaskEscapes(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Build",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.December, 31),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := svc.CreateTask(ctx, owner.ID, project.ID, TaskInput{
		Name:      "Late task",
		StartDate: date(2026, time.October, 1),
		EndDate:   date(2026, time.November, 30),
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Shrinking the project to H1 would strand the task; nothing may change.
	_, err = svc.UpdateProject(ctx, owner.ID, project.ID, ProjectInput{
		Name:      "Build shrunk",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.June, 30),
	})
	var dateErr *model.DateRangeError
	if !errors.As(err, &dateErr) {
		t.Fatalf("err = %v, want DateRangeError", err)
	}

	after, err := svc.GetProjectTree(ctx, owner.ID, project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if after.Name != "Build" {
		t.Fatalf("name = %q, rejected update leaked through", after.Name)
	}
	if after.EndDate == nil || !after.EndDate.Equal(*date(2026, time.December, 31)) {
		t.Fatalf("end date changed despite rejection")
	}
}

func TestReparentProjectChecksNewProgramRange(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	narrow, err := svc.CreateProgram(ctx, owner.ID, ProgramInput{
		Name:      "Narrow",
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.June, 30),
	})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	project, err := svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Wide",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.December, 31),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	_, err = svc.UpdateProject(ctx, owner.ID, project.ID, ProjectInput{
		Name:      "Wide",
		ProgramID: &narrow.ID,
		StartDate: project.StartDate,
		EndDate:   project.EndDate,
	})
	var dateErr *model.DateRangeError
	if !errors.As(err, &dateErr) {
		t.Fatalf("err = %v, want DateRangeError", err)
	}

	moved, err := svc.UpdateProject(ctx, owner.ID, project.ID, ProjectInput{
		Name:      "Wide",
		ProgramID: &narrow.ID,
		StartDate: date(2026, time.June, 5),
		EndDate:   date(2026, time.June, 25),
	})
	if err != nil {
		t.Fatalf("reparent with fitting range: %v", err)
	}
	if moved.ProgramID == nil || *moved.ProgramID != narrow.ID {
		t.Fatalf("project not reparented")
	}
}

func TestUpdateProgramRejectedWhenChildProjectEscapes(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, owner.ID, ProgramInput{
		Name:      "Rollout",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.December, 31),
	})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	if _, err := svc.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Autumn",
		ProgramID: &program.ID,
		StartDate: date(2026, time.September, 1),
		EndDate:   date(2026, time.November, 30),
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}

	_, err = svc.UpdateProgram(ctx, owner.ID, program.ID, ProgramInput{
		Name:      "Rollout",
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.June, 30),
	})
	var dateErr *model.DateRangeError
	if !errors.As(err, &dateErr) {
		t.Fatalf("err = %v, want DateRangeError", err)
	}
}

func TestInvertedRangeRejected(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	svc := NewHierarchyService(db)
	ctx := context.Background()

	_, err := svc.CreateProgram(ctx, owner.ID, ProgramInput{
		Name:      "Backwards",
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.January, 1),
	})
	var dateErr *model.DateRangeError
	if !errors.As(err, &dateErr) {
		t.Fatalf("err = %v, want DateRangeError", err)
	}
}
