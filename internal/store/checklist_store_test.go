package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nvoropaev/scope/internal/model"
	"github.com/nvoropaev/scope/internal/store"
	"github.com/nvoropaev/scope/tests/testutil"
)

func newTaskID(t *testing.T, s *store.SQLiteStore) string {
	t.Helper()
	task, err := s.CreateTask(context.Background(), model.Task{Title: "parent"}, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task.ID
}

func TestChecklistItemsAppendInOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	taskID := newTaskID(t, s)

	first, err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: taskID, Text: "first"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	second, err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: taskID, Text: "second"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if second.SortOrder <= first.SortOrder {
		t.Fatalf("expected appended item to sort after: %d vs %d", second.SortOrder, first.SortOrder)
	}

	items, err := s.GetChecklistItems(ctx, taskID)
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	if len(items) != 2 || items[0].Text != "first" || items[1].Text != "second" {
		t.Fatalf("unexpected items: %+v", items)
	}

	if _, err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: taskID, Text: " "}); err == nil {
		t.Fatal("expected validation error for blank text")
	}
}

func TestToggleChecklistItem(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	taskID := newTaskID(t, s)

	item, err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: taskID, Text: "step"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	toggled, err := s.ToggleChecklistItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Done {
		t.Fatal("expected item done after toggle")
	}

	back, err := s.ToggleChecklistItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if back.Done {
		t.Fatal("expected item undone after second toggle")
	}

	if _, err := s.ToggleChecklistItem(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderChecklistItem(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	taskID := newTaskID(t, s)

	a, _ := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: taskID, Text: "a"})
	b, _ := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: taskID, Text: "b"})

	if err := s.ReorderChecklistItem(ctx, b.ID, a.SortOrder-1); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	items, err := s.GetChecklistItems(ctx, taskID)
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	if items[0].ID != b.ID {
		t.Fatalf("expected b first after reorder, got %+v", items)
	}
}
