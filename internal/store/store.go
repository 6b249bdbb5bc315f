package store

import (
	"context"
	"errors"
	"time"

	"github.com/nvoropaev/scope/internal/model"
)

// ErrNotFound is returned when a referenced entity id does not exist.
// Callers translate it into a client error at the request boundary.
var ErrNotFound = errors.New("store: not found")

// ProjectUnfiled selects tasks with no project when used as
// TaskFilter.ProjectID.
const ProjectUnfiled = "unfiled"

// Due-date buckets for TaskFilter.Due.
const (
	DueToday    = "today"
	DueUpcoming = "upcoming"
	DueOverdue  = "overdue"
)

// TaskFilter controls filtering, sorting, and pagination for task queries.
type TaskFilter struct {
	Completed *bool
	ProjectID *string // project UUID, or ProjectUnfiled for NULL project_id
	TagID     *string
	Priority  *int
	UserID    *string
	Query     *string // substring search over title + description
	Due       *string // DueToday, DueUpcoming, or DueOverdue
	HasDue    *bool   // require (or exclude) a due date

	// DueFrom/DueTo bound the due date inclusively (calendar feeds).
	DueFrom *time.Time
	DueTo   *time.Time

	// SortBy selects a single sort column ("priority", "due_date",
	// "sort_order", "created_at", "updated_at", "title"). Empty means the
	// default listing order: incomplete first, priority descending,
	// manual order ascending, newest created first.
	SortBy   string
	SortDesc bool

	Limit  int
	Offset int
}

// Store defines the persistence contract for projects, tags, tasks, and
// the task-owned child entities. Every mutation runs as one atomic unit
// of work; deletes cascade through the parent->child relations and
// report the attachment file refs the cascade removed so callers can
// clean up stored blobs.
type Store interface {
	// === Tasks ===

	CreateTask(ctx context.Context, task model.Task, tagIDs []string) (*model.Task, error)
	UpdateTask(ctx context.Context, task model.Task, tagIDs []string) error
	ToggleTask(ctx context.Context, id string) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) (fileRefs []string, err error)
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	CountTasks(ctx context.Context, filter TaskFilter) (int, error)
	ReorderTask(ctx context.Context, id string, sortOrder int) error

	// === Projects ===

	CreateProject(ctx context.Context, project model.Project) (*model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) error
	DeleteProject(ctx context.Context, id string) (fileRefs []string, err error)
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	GetProjects(ctx context.Context, includeArchived bool) ([]model.Project, error)
	ArchiveProject(ctx context.Context, id string) error
	RestoreProject(ctx context.Context, id string) error
	ProjectTaskCounts(ctx context.Context, id string) (*model.ProjectCounts, error)

	// === Tags ===

	CreateTag(ctx context.Context, tag model.Tag) (*model.Tag, error)
	UpdateTag(ctx context.Context, tag model.Tag) error
	DeleteTag(ctx context.Context, id string) error
	GetTags(ctx context.Context) ([]model.Tag, error)
	GetTagsForTask(ctx context.Context, taskID string) ([]model.Tag, error)
	SetTaskTags(ctx context.Context, taskID string, tagIDs []string) error

	// === Checklist ===

	AddChecklistItem(ctx context.Context, item model.ChecklistItem) (*model.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, item model.ChecklistItem) error
	DeleteChecklistItem(ctx context.Context, id string) error
	ToggleChecklistItem(ctx context.Context, id string) (*model.ChecklistItem, error)
	ReorderChecklistItem(ctx context.Context, id string, sortOrder int) error
	GetChecklistItemByID(ctx context.Context, id string) (*model.ChecklistItem, error)
	GetChecklistItems(ctx context.Context, taskID string) ([]model.ChecklistItem, error)

	// === Notes ===

	AddNote(ctx context.Context, note model.Note) (*model.Note, error)
	UpdateNote(ctx context.Context, note model.Note) error
	DeleteNote(ctx context.Context, id string) error
	GetNotesForTask(ctx context.Context, taskID string) ([]model.Note, error)

	// === Links ===

	AddLink(ctx context.Context, link model.Link) (*model.Link, error)
	DeleteLink(ctx context.Context, id string) error
	GetLinksForTask(ctx context.Context, taskID string) ([]model.Link, error)

	// === Attachments ===

	AddAttachment(ctx context.Context, att model.Attachment) (*model.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) (fileRef string, err error)
	GetAttachmentByID(ctx context.Context, id string) (*model.Attachment, error)
	GetAttachmentsForTask(ctx context.Context, taskID string) ([]model.Attachment, error)
}
