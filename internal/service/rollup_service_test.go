package service

import (
	"context"
	"testing"
	"time"

	"project-planner/internal/model"
)

func TestProgramProgressIsMeanOfProjectMeans(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	hierarchy := NewHierarchyService(db)
	rollup := NewRollupService(db)
	ctx := context.Background()

	program, err := hierarchy.CreateProgram(ctx, owner.ID, ProgramInput{Name: "Rollout"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	// Two projects with task progress {20,40} and {60,80}: project means 30
	// and 70, program mean 50.
	for i, pair := range [][2]int{{20, 40}, {60, 80}} {
		project, err := hierarchy.CreateProject(ctx, owner.ID, ProjectInput{
			Name:      []string{"First", "Second"}[i],
			ProgramID: &program.ID,
		})
		if err != nil {
			t.Fatalf("create project: %v", err)
		}
		for _, progress := range pair {
			task, err := hierarchy.CreateTask(ctx, owner.ID, project.ID, TaskInput{Name: "t"})
			if err != nil {
				t.Fatalf("create task: %v", err)
			}
			if _, err := hierarchy.SetTaskProgress(ctx, owner.ID, task.ID, progress); err != nil {
				t.Fatalf("set progress: %v", err)
			}
		}
	}

	summary, err := rollup.GetProgramSummary(ctx, owner.ID, program.ID)
	if err != nil {
		t.Fatalf("program summary: %v", err)
	}
	if summary.Progress != 50 {
		t.Fatalf("program progress = %v, want 50", summary.Progress)
	}
}

func TestEmptyProjectContributesZeroToProgram(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	hierarchy := NewHierarchyService(db)
	rollup := NewRollupService(db)
	ctx := context.Background()

	program, err := hierarchy.CreateProgram(ctx, owner.ID, ProgramInput{Name: "Rollout"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	full, err := hierarchy.CreateProject(ctx, owner.ID, ProjectInput{Name: "Busy", ProgramID: &program.ID})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := hierarchy.CreateTask(ctx, owner.ID, full.ID, TaskInput{Name: "t"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := hierarchy.SetTaskProgress(ctx, owner.ID, task.ID, 100); err != nil {
		t.Fatalf("set progress: %v", err)
	}
	if _, err := hierarchy.CreateProject(ctx, owner.ID, ProjectInput{Name: "Empty", ProgramID: &program.ID}); err != nil {
		t.Fatalf("create empty project: %v", err)
	}

	summary, err := rollup.GetProgramSummary(ctx, owner.ID, program.ID)
	if err != nil {
		t.Fatalf("program summary: %v", err)
	}
	// (100 + 0) / 2: the taskless project counts as zero.
	if summary.Progress != 50 {
		t.Fatalf("program progress = %v, want 50", summary.Progress)
	}
}

func TestTotalCostSumsWholeSubtree(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	hierarchy := NewHierarchyService(db)
	attachments := NewAttachmentService(db)
	rollup := NewRollupService(db)
	ctx := context.Background()

	program, err := hierarchy.CreateProgram(ctx, owner.ID, ProgramInput{Name: "Rollout"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	project, err := hierarchy.CreateProject(ctx, owner.ID, ProjectInput{Name: "Build", ProgramID: &program.ID})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := hierarchy.CreateTask(ctx, owner.ID, project.ID, TaskInput{Name: "Work"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	add := func(ref model.ParentRef, qty, cost float64) {
		t.Helper()
		if _, err := attachments.AddMaterial(ctx, owner.ID, ref, MaterialInput{
			Name: "m", Quantity: qty, CostPerUnit: cost,
		}); err != nil {
			t.Fatalf("add material: %v", err)
		}
	}
	add(model.ParentRef{Kind: model.ParentProgram, ID: program.ID}, 2, 100) // 200
	add(model.ParentRef{Kind: model.ParentProject, ID: project.ID}, 3, 10)  // 30
	add(model.ParentRef{Kind: model.ParentTask, ID: task.ID}, 5, 4)         // 20

	programSummary, err := rollup.GetProgramSummary(ctx, owner.ID, program.ID)
	if err != nil {
		t.Fatalf("program summary: %v", err)
	}
	if programSummary.TotalCost != 250 {
		t.Fatalf("program total cost = %v, want 250", programSummary.TotalCost)
	}

	projectSummary, err := rollup.GetProjectSummary(ctx, owner.ID, project.ID)
	if err != nil {
		t.Fatalf("project summary: %v", err)
	}
	// Program-level material is outside the project subtree.
	if projectSummary.TotalCost != 50 {
		t.Fatalf("project total cost = %v, want 50", projectSummary.TotalCost)
	}
}

func TestEffectiveSpanCoversDescendants(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	hierarchy := NewHierarchyService(db)
	rollup := NewRollupService(db)
	ctx := context.Background()

	// Program itself has no dates; the span comes from its children.
	program, err := hierarchy.CreateProgram(ctx, owner.ID, ProgramInput{Name: "Rollout"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	project, err := hierarchy.CreateProject(ctx, owner.ID, ProjectInput{
		Name:      "Build",
		ProgramID: &program.ID,
		StartDate: date(2026, time.March, 1),
		EndDate:   date(2026, time.May, 31),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := hierarchy.CreateTask(ctx, owner.ID, project.ID, TaskInput{
		Name:      "Early",
		StartDate: date(2026, time.March, 5),
		EndDate:   date(2026, time.April, 1),
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	summary, err := rollup.GetProgramSummary(ctx, owner.ID, program.ID)
	if err != nil {
		t.Fatalf("program summary: %v", err)
	}
	if summary.EffectiveStart == nil || !summary.EffectiveStart.Equal(*date(2026, time.March, 1)) {
		t.Fatalf("effective start = %v, want 2026-03-01", summary.EffectiveStart)
	}
	if summary.EffectiveEnd == nil || !summary.EffectiveEnd.Equal(*date(2026, time.May, 31)) {
		t.Fatalf("effective end = %v, want 2026-05-31", summary.EffectiveEnd)
	}
}

func TestSummaryIdempotentWithoutWrites(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	hierarchy := NewHierarchyService(db)
	rollup := NewRollupService(db)
	ctx := context.Background()

	program, err := hierarchy.CreateProgram(ctx, owner.ID, ProgramInput{Name: "Rollout"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	project, err := hierarchy.CreateProject(ctx, owner.ID, ProjectInput{Name: "Build", ProgramID: &program.ID})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := hierarchy.CreateTask(ctx, owner.ID, project.ID, TaskInput{Name: "Work"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := hierarchy.SetTaskProgress(ctx, owner.ID, task.ID, 40); err != nil {
		t.Fatalf("set progress: %v", err)
	}

	first, err := rollup.GetProgramSummary(ctx, owner.ID, program.ID)
	if err != nil {
		t.Fatalf("first summary: %v", err)
	}
	second, err := rollup.GetProgramSummary(ctx, owner.ID, program.ID)
	if err != nil {
		t.Fatalf("second summary: %v", err)
	}
	if first.Rollup != second.Rollup {
		t.Fatalf("rollups differ without writes: %+v vs %+v", first.Rollup, second.Rollup)
	}
}

func TestRollupReflectsWriteImmediately(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")
	hierarchy := NewHierarchyService(db)
	rollup := NewRollupService(db)
	ctx := context.Background()

	project, err := hierarchy.CreateProject(ctx, owner.ID, ProjectInput{Name: "Build"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := hierarchy.CreateTask(ctx, owner.ID, project.ID, TaskInput{Name: "Work"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	before, err := rollup.GetProjectSummary(ctx, owner.ID, project.ID)
	if err != nil {
		t.Fatalf("summary before: %v", err)
	}
	if before.Progress != 0 {
		t.Fatalf("progress before = %v, want 0", before.Progress)
	}

	if _, err := hierarchy.SetTaskProgress(ctx, owner.ID, task.ID, 80); err != nil {
		t.Fatalf("set progress: %v", err)
	}

	after, err := rollup.GetProjectSummary(ctx, owner.ID, project.ID)
	if err != nil {
		t.Fatalf("summary after: %v", err)
	}
	if after.Progress != 80 {
		t.Fatalf("progress after = %v, want 80", after.Progress)
	}
}
