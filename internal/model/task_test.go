package model

import (
	"testing"
	"time"
)

func TestStampCompletionSetsAndClears(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	task := Task{Title: "Write report", Completed: true}
	task.StampCompletion(now)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at %v, got %v", now, task.CompletedAt)
	}

	// Already-stamped completed task keeps its original stamp.
	later := now.Add(2 * time.Hour)
	task.StampCompletion(later)
	if !task.CompletedAt.Equal(now) {
		t.Fatalf("stamp changed on re-save: %v", task.CompletedAt)
	}

	task.Completed = false
	task.StampCompletion(later)
	if task.CompletedAt != nil {
		t.Fatalf("expected nil completed_at after un-completing, got %v", task.CompletedAt)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	task := Task{Title: "t", DueDate: &yesterday}
	if !task.IsOverdue(now) {
		t.Fatal("task due yesterday should be overdue")
	}

	task.DueDate = &today
	if task.IsOverdue(now) {
		t.Fatal("task due today should not be overdue")
	}

	task.DueDate = &yesterday
	task.Completed = true
	if task.IsOverdue(now) {
		t.Fatal("completed task should never be overdue")
	}

	task = Task{Title: "t"}
	if task.IsOverdue(now) {
		t.Fatal("task without due date should never be overdue")
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(nil); got != nil {
		t.Fatalf("expected nil progress for empty checklist, got %+v", got)
	}

	items := []ChecklistItem{
		{Text: "a", Done: true},
		{Text: "b"},
		{Text: "c"},
	}
	got := Progress(items)
	if got == nil {
		t.Fatal("expected progress, got nil")
	}
	if got.Total != 3 || got.Done != 1 || got.Percent != 33 {
		t.Fatalf("unexpected progress: %+v", got)
	}
}

func TestPriorityLabel(t *testing.T) {
	if PriorityLabel(PriorityUrgent) != "Urgent" {
		t.Fatalf("unexpected label: %s", PriorityLabel(PriorityUrgent))
	}
	if PriorityLabel(0) != "Medium" {
		t.Fatalf("off-scale priority should label as Medium, got %s", PriorityLabel(0))
	}
}
