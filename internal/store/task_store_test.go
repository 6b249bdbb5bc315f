package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nvoropaev/scope/internal/model"
	"github.com/nvoropaev/scope/internal/store"
	"github.com/nvoropaev/scope/tests/testutil"
)

func TestCreateTaskDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, model.Task{Title: "  Buy milk  "}, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated ID")
	}
	if task.Priority != model.PriorityMedium {
		t.Fatalf("expected medium priority default, got %d", task.Priority)
	}
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("new task must be incomplete: %+v", task)
	}

	_, err = s.CreateTask(ctx, model.Task{Title: "   "}, nil)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}
}

func TestToggleTaskStampsCompletion(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, model.Task{Title: "Ship release"}, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	toggled, err := s.ToggleTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle task: %v", err)
	}
	if !toggled.Completed || toggled.CompletedAt == nil {
		t.Fatalf("expected completed with stamp, got %+v", toggled)
	}

	back, err := s.ToggleTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if back.Completed || back.CompletedAt != nil {
		t.Fatalf("expected incomplete with no stamp, got %+v", back)
	}

	_, err = s.ToggleTask(ctx, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTaskReplacesTags(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	urgent, err := s.CreateTag(ctx, model.Tag{Name: "urgent"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	home, err := s.CreateTag(ctx, model.Tag{Name: "home"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	task, err := s.CreateTask(ctx, model.Task{Title: "Fix faucet"}, []string{urgent.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if len(task.Tags) != 1 || task.Tags[0].Name != "urgent" {
		t.Fatalf("unexpected tags on create: %+v", task.Tags)
	}

	// nil tagIDs leaves the tag set untouched.
	task.Description = "kitchen"
	if err := s.UpdateTask(ctx, *task, nil); err != nil {
		t.Fatalf("update task: %v", err)
	}
	got, err := s.GetTaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if len(got.Tags) != 1 {
		t.Fatalf("nil tagIDs should keep tags, got %+v", got.Tags)
	}

	// Non-nil replaces the whole set; empty slice clears it.
	if err := s.UpdateTask(ctx, *got, []string{home.ID}); err != nil {
		t.Fatalf("update task tags: %v", err)
	}
	got, _ = s.GetTaskByID(ctx, task.ID)
	if len(got.Tags) != 1 || got.Tags[0].Name != "home" {
		t.Fatalf("expected replaced tag set, got %+v", got.Tags)
	}

	if err := s.UpdateTask(ctx, *got, []string{}); err != nil {
		t.Fatalf("clear task tags: %v", err)
	}
	got, _ = s.GetTaskByID(ctx, task.ID)
	if len(got.Tags) != 0 {
		t.Fatalf("expected cleared tag set, got %+v", got.Tags)
	}
}

func TestDefaultTaskOrdering(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	low, err := s.CreateTask(ctx, model.Task{Title: "low", Priority: model.PriorityLow}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	urgent, err := s.CreateTask(ctx, model.Task{Title: "urgent", Priority: model.PriorityUrgent}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	done, err := s.CreateTask(ctx, model.Task{Title: "done", Priority: model.PriorityUrgent, Completed: true}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks, err := s.GetTasks(ctx, store.TaskFilter{})
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	// Incomplete first, higher priority first, completed last.
	if tasks[0].ID != urgent.ID || tasks[1].ID != low.ID || tasks[2].ID != done.ID {
		t.Fatalf("unexpected order: %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestTaskFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	project, err := s.CreateProject(ctx, model.Project{Name: "Garden"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := s.CreateTask(ctx, model.Task{Title: "plant tomatoes", ProjectID: &project.ID}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateTask(ctx, model.Task{Title: "water lawn"}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	filed, err := s.GetTasks(ctx, store.TaskFilter{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("filter by project: %v", err)
	}
	if len(filed) != 1 || filed[0].Title != "plant tomatoes" {
		t.Fatalf("unexpected project filter result: %+v", filed)
	}

	unfiled := store.ProjectUnfiled
	loose, err := s.GetTasks(ctx, store.TaskFilter{ProjectID: &unfiled})
	if err != nil {
		t.Fatalf("filter unfiled: %v", err)
	}
	if len(loose) != 1 || loose[0].Title != "water lawn" {
		t.Fatalf("unexpected unfiled filter result: %+v", loose)
	}

	q := "tomato"
	matched, err := s.GetTasks(ctx, store.TaskFilter{Query: &q})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matched) != 1 || matched[0].Title != "plant tomatoes" {
		t.Fatalf("unexpected search result: %+v", matched)
	}

	count, err := s.CountTasks(ctx, store.TaskFilter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 tasks, got %d", count)
	}
}

func TestDueDateFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	nextWeek := today.AddDate(0, 0, 10)

	if _, err := s.CreateTask(ctx, model.Task{Title: "due today", DueDate: &today}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateTask(ctx, model.Task{Title: "late", DueDate: &yesterday}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateTask(ctx, model.Task{Title: "far out", DueDate: &nextWeek}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateTask(ctx, model.Task{Title: "undated"}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	check := func(due string, want string) {
		t.Helper()
		tasks, err := s.GetTasks(ctx, store.TaskFilter{Due: &due})
		if err != nil {
			t.Fatalf("filter %s: %v", due, err)
		}
		if len(tasks) != 1 || tasks[0].Title != want {
			t.Fatalf("filter %s: expected %q, got %+v", due, want, tasks)
		}
	}
	check(store.DueToday, "due today")
	check(store.DueOverdue, "late")

	upcoming := store.DueUpcoming
	tasks, err := s.GetTasks(ctx, store.TaskFilter{Due: &upcoming})
	if err != nil {
		t.Fatalf("filter upcoming: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "due today" {
		t.Fatalf("upcoming window should cover today but not +10d: %+v", tasks)
	}

	hasDue := true
	dated, err := s.GetTasks(ctx, store.TaskFilter{HasDue: &hasDue, DueFrom: &today, DueTo: &nextWeek})
	if err != nil {
		t.Fatalf("range filter: %v", err)
	}
	if len(dated) != 2 {
		t.Fatalf("expected 2 tasks in range, got %d", len(dated))
	}
}

func TestDeleteTaskCascadesAndReturnsRefs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, model.Task{Title: "doomed"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: task.ID, Text: "step"}); err != nil {
		t.Fatalf("add checklist item: %v", err)
	}
	if _, err := s.AddNote(ctx, model.Note{TaskID: task.ID, Content: "note"}); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if _, err := s.AddAttachment(ctx, model.Attachment{
		TaskID: task.ID, FileRef: "attachments/2026/03/a.pdf", Filename: "a.pdf", Size: 12,
	}); err != nil {
		t.Fatalf("add attachment: %v", err)
	}

	refs, err := s.DeleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if len(refs) != 1 || refs[0] != "attachments/2026/03/a.pdf" {
		t.Fatalf("unexpected refs: %v", refs)
	}

	if _, err := s.GetTaskByID(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	items, err := s.GetChecklistItems(ctx, task.ID)
	if err != nil {
		t.Fatalf("get checklist items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("checklist items survived cascade: %+v", items)
	}
	notes, err := s.GetNotesForTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("notes survived cascade: %+v", notes)
	}
}

func TestReorderTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, model.Task{Title: "movable"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.ReorderTask(ctx, task.ID, 5); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got, err := s.GetTaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SortOrder != 5 {
		t.Fatalf("expected sort order 5, got %d", got.SortOrder)
	}

	if err := s.ReorderTask(ctx, "missing", 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
