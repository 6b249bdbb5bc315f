package model

import "time"

// Priority levels for tasks. Higher values sort first in task lists.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

var priorityLabels = map[int]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// ValidPriority reports whether p is on the 1-4 priority scale.
func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

// PriorityLabel returns the display name for a priority value,
// or "Medium" for values off the scale.
func PriorityLabel(p int) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return priorityLabels[PriorityMedium]
}

// Task is a to-do item, optionally filed under a project.
type Task struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	ProjectID   *string    `json:"project_id,omitempty" db:"project_id"`
	UserID      *string    `json:"user_id,omitempty" db:"user_id"`
	Priority    int        `json:"priority" db:"priority"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	// DueDate holds the calendar date only (midnight UTC); the optional
	// clock time lives in DueTime as "HH:MM".
	DueDate  *time.Time `json:"due_date,omitempty" db:"due_date"`
	DueTime  *string    `json:"due_time,omitempty" db:"due_time"`
	Reminder *time.Time `json:"reminder,omitempty" db:"reminder"`

	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Tags is populated by queries that join with task_tags.
	Tags []Tag `json:"tags,omitempty" db:"-"`
}

// StampCompletion enforces the invariant that CompletedAt is set exactly
// when Completed is true. Completing a task with no stamp records now;
// un-completing clears the stamp. Called on every write path, so a task
// that is already completed keeps its original stamp.
func (t *Task) StampCompletion(now time.Time) {
	switch {
	case t.Completed && t.CompletedAt == nil:
		ts := now.UTC()
		t.CompletedAt = &ts
	case !t.Completed:
		t.CompletedAt = nil
	}
}

// IsOverdue reports whether the task's due date has passed. Completed
// tasks and tasks without a due date are never overdue. Only calendar
// dates are compared; a task due today is not overdue regardless of
// DueTime.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return t.DueDate.Before(today)
}

// ChecklistProgress summarizes completion across a task's checklist.
type ChecklistProgress struct {
	Total   int `json:"total"`
	Done    int `json:"completed"`
	Percent int `json:"percent"`
}

// Progress computes checklist progress over items. A task with no
// checklist has no progress, so the zero-item case returns nil rather
// than a 0/0 division. Percent is floored (1 of 3 done is 33).
func Progress(items []ChecklistItem) *ChecklistProgress {
	if len(items) == 0 {
		return nil
	}
	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	return &ChecklistProgress{
		Total:   len(items),
		Done:    done,
		Percent: done * 100 / len(items),
	}
}

// ChecklistItem is a sub-step within a task's internal checklist.
// Its lifecycle is bound to the parent task (CASCADE delete).
type ChecklistItem struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	Text      string    `json:"text" db:"text"`
	Done      bool      `json:"done" db:"done"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
