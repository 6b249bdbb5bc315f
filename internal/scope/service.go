// Package scope implements the task domain operations: create, update,
// toggle, and delete for tasks and their owned sub-entities, plus the
// derived view state the presentation layer consumes. The request layer
// translates HTTP into calls on Service; Service owns validation,
// transaction-shaped store calls, and best-effort attachment cleanup.
package scope

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nvoropaev/scope/internal/config"
	"github.com/nvoropaev/scope/internal/files"
	"github.com/nvoropaev/scope/internal/model"
	"github.com/nvoropaev/scope/internal/store"
)

// ErrAttachmentTooLarge is returned when an upload exceeds the
// configured size ceiling. Nothing is stored in that case.
var ErrAttachmentTooLarge = errors.New("scope: attachment exceeds size limit")

// Service wires the persistent store, the attachment blob store, and
// configuration into the domain operations.
type Service struct {
	store  store.Store
	files  files.Store
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Service. A nil logger falls back to slog.Default.
func New(st store.Store, fs files.Store, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, files: fs, cfg: cfg, logger: logger}
}

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	Title       string
	Description string
	ProjectID   *string
	UserID      *string
	Priority    int
	DueDate     *time.Time
	DueTime     *string
	Reminder    *time.Time
	TagIDs      []string
}

// CreateTask creates a new incomplete task. Title is required; an
// out-of-range priority falls back to medium; tags are set in the same
// unit of work as the insert.
func (s *Service) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	task := model.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ProjectID:   in.ProjectID,
		UserID:      in.UserID,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		DueTime:     in.DueTime,
		Reminder:    in.Reminder,
	}
	return s.store.CreateTask(ctx, task, in.TagIDs)
}

// TaskPatch is an explicit partial update: a nil pointer leaves the
// field unchanged, a set pointer overwrites it, and the Clear booleans
// null out the corresponding optional field. Tags replaces the whole
// tag set when non-nil.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *int

	ProjectID    *string
	ClearProject bool

	DueDate      *time.Time
	ClearDueDate bool

	DueTime      *string
	ClearDueTime bool

	Reminder      *time.Time
	ClearReminder bool

	Completed *bool
	SortOrder *int

	Tags []string
}

// UpdateTask applies a partial update to a task. The completion stamp
// invariant is re-derived on the write regardless of which fields
// changed. Returns the task as stored.
func (s *Service) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	task, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, model.Invalid("title", "title must not be empty")
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !model.ValidPriority(*patch.Priority) {
			return nil, model.Invalid("priority", "priority must be between 1 and 4")
		}
		task.Priority = *patch.Priority
	}

	switch {
	case patch.ProjectID != nil:
		task.ProjectID = patch.ProjectID
	case patch.ClearProject:
		task.ProjectID = nil
	}
	switch {
	case patch.DueDate != nil:
		task.DueDate = patch.DueDate
	case patch.ClearDueDate:
		task.DueDate = nil
	}
	switch {
	case patch.DueTime != nil:
		task.DueTime = patch.DueTime
	case patch.ClearDueTime:
		task.DueTime = nil
	}
	switch {
	case patch.Reminder != nil:
		task.Reminder = patch.Reminder
	case patch.ClearReminder:
		task.Reminder = nil
	}

	if patch.Completed != nil {
		task.Completed = *patch.Completed
		if !task.Completed {
			task.CompletedAt = nil
		}
	}
	if patch.SortOrder != nil {
		task.SortOrder = *patch.SortOrder
	}

	if err := s.store.UpdateTask(ctx, *task, patch.Tags); err != nil {
		return nil, err
	}
	return s.store.GetTaskByID(ctx, id)
}

// ToggleTask flips a task's completion state. Completing stamps a fresh
// completion time; toggling off and back on produces a new stamp, not
// the original one.
func (s *Service) ToggleTask(ctx context.Context, id string) (*model.Task, error) {
	return s.store.ToggleTask(ctx, id)
}

// DeleteTask removes a task with all its checklist items, notes, links,
// and attachments. Stored attachment blobs are removed after the record
// deletion commits; blob removal failures are logged and do not undo
// the delete.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	refs, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	s.removeBlobs(refs)
	return nil
}

// ReorderTask assigns a new manual sort order to a task.
func (s *Service) ReorderTask(ctx context.Context, id string, sortOrder int) error {
	return s.store.ReorderTask(ctx, id, sortOrder)
}

// TaskDetail aggregates a task with everything shown on its detail page.
type TaskDetail struct {
	Task        model.Task               `json:"task"`
	Checklist   []model.ChecklistItem    `json:"checklist"`
	Progress    *model.ChecklistProgress `json:"progress"`
	Notes       []model.Note             `json:"notes"`
	Links       []model.Link             `json:"links"`
	Attachments []model.Attachment       `json:"attachments"`
}

// TaskDetail loads a task together with its child entities and derived
// checklist progress.
func (s *Service) TaskDetail(ctx context.Context, id string) (*TaskDetail, error) {
	task, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	checklist, err := s.store.GetChecklistItems(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.GetNotesForTask(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.store.GetLinksForTask(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments, err := s.store.GetAttachmentsForTask(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TaskDetail{
		Task:        *task,
		Checklist:   checklist,
		Progress:    model.Progress(checklist),
		Notes:       notes,
		Links:       links,
		Attachments: attachments,
	}, nil
}

// === Checklist ===

// AddChecklistItem appends a checklist item to a task and returns the
// item together with the task's recomputed progress.
func (s *Service) AddChecklistItem(ctx context.Context, taskID, text string) (*model.ChecklistItem, *model.ChecklistProgress, error) {
	if _, err := s.store.GetTaskByID(ctx, taskID); err != nil {
		return nil, nil, err
	}
	item, err := s.store.AddChecklistItem(ctx, model.ChecklistItem{TaskID: taskID, Text: strings.TrimSpace(text)})
	if err != nil {
		return nil, nil, err
	}
	progress, err := s.TaskProgress(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	return item, progress, nil
}

// ToggleChecklistItem flips an item's done state and returns the item
// with the recomputed progress.
func (s *Service) ToggleChecklistItem(ctx context.Context, id string) (*model.ChecklistItem, *model.ChecklistProgress, error) {
	item, err := s.store.ToggleChecklistItem(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	progress, err := s.TaskProgress(ctx, item.TaskID)
	if err != nil {
		return nil, nil, err
	}
	return item, progress, nil
}

// DeleteChecklistItem removes an item and returns the remaining
// progress, which is nil once the last item is gone.
func (s *Service) DeleteChecklistItem(ctx context.Context, id string) (*model.ChecklistProgress, error) {
	item, err := s.store.GetChecklistItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteChecklistItem(ctx, id); err != nil {
		return nil, err
	}
	return s.TaskProgress(ctx, item.TaskID)
}

// TaskProgress computes the live checklist progress for a task; nil
// when the task has no checklist.
func (s *Service) TaskProgress(ctx context.Context, taskID string) (*model.ChecklistProgress, error) {
	items, err := s.store.GetChecklistItems(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return model.Progress(items), nil
}

// === Notes ===

// AddNote attaches a free-text note to a task.
func (s *Service) AddNote(ctx context.Context, taskID, content string) (*model.Note, error) {
	if _, err := s.store.GetTaskByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.AddNote(ctx, model.Note{TaskID: taskID, Content: content})
}

// UpdateNote rewrites a note's content.
func (s *Service) UpdateNote(ctx context.Context, id, content string) error {
	return s.store.UpdateNote(ctx, model.Note{ID: id, Content: content})
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	return s.store.DeleteNote(ctx, id)
}

// === Links ===

// AddLink attaches a URL to a task, prefixing https:// when the caller
// omitted the scheme.
func (s *Service) AddLink(ctx context.Context, taskID, rawURL, title string) (*model.Link, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, model.Invalid("url", "url must not be empty")
	}
	if _, err := s.store.GetTaskByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.AddLink(ctx, model.Link{
		TaskID: taskID,
		URL:    normalizeURL(rawURL),
		Title:  strings.TrimSpace(title),
	})
}

// DeleteLink removes a link.
func (s *Service) DeleteLink(ctx context.Context, id string) error {
	return s.store.DeleteLink(ctx, id)
}

// normalizeURL prepends https:// to scheme-less URLs.
func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// === Attachments ===

// AddAttachment stores an uploaded file against a task. Uploads larger
// than the configured ceiling are rejected before anything touches the
// blob store; declared sizes are double-checked against the bytes
// actually read.
func (s *Service) AddAttachment(ctx context.Context, taskID, filename string, size int64, content io.Reader) (*model.Attachment, error) {
	limit := s.cfg.MaxAttachmentSize
	if size > limit {
		return nil, fmt.Errorf("%w (max %s)", ErrAttachmentTooLarge, model.FormatSize(limit))
	}
	if _, err := s.store.GetTaskByID(ctx, taskID); err != nil {
		return nil, err
	}

	ref, written, err := s.files.Save(filename, io.LimitReader(content, limit+1))
	if err != nil {
		return nil, err
	}
	if written > limit {
		s.removeBlobs([]string{ref})
		return nil, fmt.Errorf("%w (max %s)", ErrAttachmentTooLarge, model.FormatSize(limit))
	}

	att, err := s.store.AddAttachment(ctx, model.Attachment{
		TaskID:   taskID,
		FileRef:  ref,
		Filename: filename,
		Size:     written,
	})
	if err != nil {
		s.removeBlobs([]string{ref})
		return nil, err
	}
	return att, nil
}

// OpenAttachment returns a reader over an attachment's stored content.
func (s *Service) OpenAttachment(ctx context.Context, id string) (*model.Attachment, io.ReadCloser, error) {
	att, err := s.store.GetAttachmentByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.files.Open(att.FileRef)
	if err != nil {
		return nil, nil, err
	}
	return att, rc, nil
}

// DeleteAttachment removes the attachment record, then the stored blob.
// The record delete is the operation of record; a failed blob removal
// is logged and does not fail the call.
func (s *Service) DeleteAttachment(ctx context.Context, id string) error {
	ref, err := s.store.DeleteAttachment(ctx, id)
	if err != nil {
		return err
	}
	s.removeBlobs([]string{ref})
	return nil
}

// removeBlobs deletes stored attachment files best-effort.
func (s *Service) removeBlobs(refs []string) {
	for _, ref := range refs {
		if err := s.files.Remove(ref); err != nil {
			s.logger.Warn("removing attachment blob", "ref", ref, "error", err)
		}
	}
}

// === Projects ===

// ProjectInput carries the fields accepted when creating a project.
type ProjectInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
	UserID      *string
}

// CreateProject creates a project, applying display defaults for color
// and icon.
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (*model.Project, error) {
	return s.store.CreateProject(ctx, model.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		UserID:      in.UserID,
	})
}

// ProjectPatch is an explicit partial update for projects. An empty
// patched name keeps the current one rather than failing, matching the
// inline-edit behavior of the UI.
type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	Archived    *bool
}

// UpdateProject applies a partial update and returns the stored project.
func (s *Service) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*model.Project, error) {
	project, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			project.Name = name
		}
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Color != nil && *patch.Color != "" {
		project.Color = *patch.Color
	}
	if patch.Icon != nil && *patch.Icon != "" {
		project.Icon = *patch.Icon
	}
	if patch.Archived != nil {
		project.Archived = *patch.Archived
	}

	if err := s.store.UpdateProject(ctx, *project); err != nil {
		return nil, err
	}
	return s.store.GetProjectByID(ctx, id)
}

// ArchiveProject hides a project from listings. Its tasks are kept.
func (s *Service) ArchiveProject(ctx context.Context, id string) error {
	return s.store.ArchiveProject(ctx, id)
}

// RestoreProject brings an archived project back.
func (s *Service) RestoreProject(ctx context.Context, id string) error {
	return s.store.RestoreProject(ctx, id)
}

// DeleteProject removes a project and every task filed under it,
// including their stored attachment blobs. Irreversible.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	refs, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	s.removeBlobs(refs)
	return nil
}

// === Tags ===

// CreateTag creates a label with an optional display color.
func (s *Service) CreateTag(ctx context.Context, name, color string, userID *string) (*model.Tag, error) {
	return s.store.CreateTag(ctx, model.Tag{
		Name:   strings.TrimSpace(name),
		Color:  color,
		UserID: userID,
	})
}

// UpdateTag renames or recolors a tag.
func (s *Service) UpdateTag(ctx context.Context, tag model.Tag) error {
	return s.store.UpdateTag(ctx, tag)
}

// DeleteTag removes a tag from every task carrying it.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	return s.store.DeleteTag(ctx, id)
}

// ListTags returns all tags ordered by name.
func (s *Service) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.store.GetTags(ctx)
}
