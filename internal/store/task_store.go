package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nvoropaev/scope/internal/model"
)

// notFound wraps ErrNotFound with the entity kind and id.
func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// midnightUTC truncates t to the start of its UTC calendar day.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTask inserts a new task and sets its tags in the same
// transaction. Generates a UUID if ID is empty; out-of-range priorities
// fall back to medium. The stored task is returned with tags populated.
func (s *SQLiteStore) CreateTask(
	ctx context.Context,
	task model.Task,
	tagIDs []string,
) (*model.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return nil, model.Invalid("title", "title must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if !model.ValidPriority(task.Priority) {
		task.Priority = model.PriorityMedium
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.StampCompletion(now)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, project_id, user_id,
			priority, completed, completed_at,
			due_date, due_time, reminder,
			sort_order, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.ProjectID, task.UserID,
		task.Priority, boolToInt(task.Completed), task.CompletedAt,
		task.DueDate, task.DueTime, task.Reminder,
		task.SortOrder, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	if len(tagIDs) > 0 {
		if err := setTaskTagsTx(ctx, tx, task.ID, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task create: %w", err)
	}

	if len(tagIDs) > 0 {
		tags, err := s.GetTagsForTask(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	return &task, nil
}

// UpdateTask writes the full task row and, when tagIDs is non-nil,
// replaces the tag set in the same transaction (nil leaves tags
// untouched). The completion stamp is re-derived unconditionally, even
// when only unrelated fields changed.
func (s *SQLiteStore) UpdateTask(
	ctx context.Context,
	task model.Task,
	tagIDs []string,
) error {
	if strings.TrimSpace(task.Title) == "" {
		return model.Invalid("title", "title must not be empty")
	}
	if !model.ValidPriority(task.Priority) {
		return model.Invalid("priority", "priority must be between 1 and 4")
	}
	now := time.Now().UTC()
	task.UpdatedAt = now
	task.StampCompletion(now)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, project_id = ?, user_id = ?,
			priority = ?, completed = ?, completed_at = ?,
			due_date = ?, due_time = ?, reminder = ?,
			sort_order = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.ProjectID, task.UserID,
		task.Priority, boolToInt(task.Completed), task.CompletedAt,
		task.DueDate, task.DueTime, task.Reminder,
		task.SortOrder, task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("task", task.ID)
	}

	if tagIDs != nil {
		if err := setTaskTagsTx(ctx, tx, task.ID, tagIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task update: %w", err)
	}
	return nil
}

// ToggleTask flips the completion flag in a single statement, deriving
// the completion stamp from the pre-toggle state: completing stamps
// now, un-completing clears it. Returns the task after the flip.
func (s *SQLiteStore) ToggleTask(
	ctx context.Context,
	id string,
) (*model.Task, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			completed = CASE WHEN completed = 0 THEN 1 ELSE 0 END,
			completed_at = CASE WHEN completed = 0 THEN ? ELSE NULL END,
			updated_at = ?
		WHERE id = ?`,
		now, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, notFound("task", id)
	}

	return s.GetTaskByID(ctx, id)
}

// DeleteTask removes a task; checklist items, notes, links, and
// attachments go with it via the schema cascades. The file refs of the
// removed attachments are returned so the caller can delete the stored
// blobs after the record deletion commits.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var fileRefs []string
	err = tx.SelectContext(ctx, &fileRefs,
		"SELECT file_ref FROM task_attachments WHERE task_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("collecting attachment refs for task %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, notFound("task", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task delete: %w", err)
	}
	return fileRefs, nil
}

// GetTaskByID retrieves a single task by ID, including its tags.
func (s *SQLiteStore) GetTaskByID(
	ctx context.Context,
	id string,
) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("task", id)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	tags, err := s.GetTagsForTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Tags = tags

	return &task, nil
}

// GetTasks retrieves tasks matching the filter, tags populated.
func (s *SQLiteStore) GetTasks(
	ctx context.Context,
	filter TaskFilter,
) ([]model.Task, error) {
	builder := buildTaskQuery(sq.Select("tasks.*"), filter)
	if filter.TagID != nil {
		builder = builder.GroupBy("tasks.id")
	}
	builder = builder.OrderBy(taskOrdering(filter)...)
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building task query: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		tags, err := s.GetTagsForTask(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Tags = tags
	}

	return tasks, nil
}

// CountTasks returns the number of tasks matching the filter.
func (s *SQLiteStore) CountTasks(
	ctx context.Context,
	filter TaskFilter,
) (int, error) {
	builder := buildTaskQuery(sq.Select("COUNT(DISTINCT tasks.id)"), filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building task count query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

// ReorderTask updates the manual sort order for a task.
func (s *SQLiteStore) ReorderTask(
	ctx context.Context,
	id string,
	sortOrder int,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET sort_order = ?, updated_at = ? WHERE id = ?",
		sortOrder, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("reordering task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("task", id)
	}
	return nil
}

// buildTaskQuery applies the filter's WHERE clauses to a select builder.
func buildTaskQuery(builder sq.SelectBuilder, filter TaskFilter) sq.SelectBuilder {
	builder = builder.From("tasks")

	if filter.TagID != nil {
		builder = builder.
			Join("task_tags ON task_tags.task_id = tasks.id").
			Where(sq.Eq{"task_tags.tag_id": *filter.TagID})
	}
	if filter.Completed != nil {
		builder = builder.Where(sq.Eq{"tasks.completed": boolToInt(*filter.Completed)})
	}
	if filter.ProjectID != nil {
		if *filter.ProjectID == ProjectUnfiled {
			builder = builder.Where("tasks.project_id IS NULL")
		} else {
			builder = builder.Where(sq.Eq{"tasks.project_id": *filter.ProjectID})
		}
	}
	if filter.Priority != nil {
		builder = builder.Where(sq.Eq{"tasks.priority": *filter.Priority})
	}
	if filter.UserID != nil {
		builder = builder.Where(sq.Eq{"tasks.user_id": *filter.UserID})
	}
	if filter.Query != nil && *filter.Query != "" {
		like := "%" + *filter.Query + "%"
		builder = builder.Where(sq.Or{
			sq.Like{"tasks.title": like},
			sq.Like{"tasks.description": like},
		})
	}
	if filter.HasDue != nil {
		if *filter.HasDue {
			builder = builder.Where("tasks.due_date IS NOT NULL")
		} else {
			builder = builder.Where("tasks.due_date IS NULL")
		}
	}
	if filter.Due != nil {
		today := midnightUTC(time.Now())
		switch *filter.Due {
		case DueToday:
			builder = builder.
				Where(sq.GtOrEq{"tasks.due_date": today}).
				Where(sq.Lt{"tasks.due_date": today.AddDate(0, 0, 1)})
		case DueUpcoming:
			builder = builder.
				Where(sq.GtOrEq{"tasks.due_date": today}).
				Where(sq.Lt{"tasks.due_date": today.AddDate(0, 0, 7)})
		case DueOverdue:
			builder = builder.
				Where(sq.Lt{"tasks.due_date": today}).
				Where(sq.Eq{"tasks.completed": 0})
		}
	}
	if filter.DueFrom != nil {
		builder = builder.Where(sq.GtOrEq{"tasks.due_date": *filter.DueFrom})
	}
	if filter.DueTo != nil {
		builder = builder.Where(sq.LtOrEq{"tasks.due_date": *filter.DueTo})
	}

	return builder
}

// taskOrdering returns the ORDER BY columns for a filter. The default
// listing order puts incomplete tasks first, then priority descending,
// manual order ascending, newest created first.
func taskOrdering(filter TaskFilter) []string {
	if filter.SortBy == "" {
		return []string{
			"tasks.completed ASC",
			"tasks.priority DESC",
			"tasks.sort_order ASC",
			"tasks.created_at DESC",
		}
	}

	allowed := map[string]string{
		"title":      "tasks.title",
		"priority":   "tasks.priority",
		"due_date":   "tasks.due_date",
		"sort_order": "tasks.sort_order",
		"created_at": "tasks.created_at",
		"updated_at": "tasks.updated_at",
	}
	col, ok := allowed[filter.SortBy]
	if !ok {
		col = "tasks.sort_order"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	return []string{col + " " + direction}
}

// setTaskTagsTx replaces all tag associations for a task within tx.
func setTaskTagsTx(ctx context.Context, tx *sqlx.Tx, taskID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing task tags: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)",
			taskID, tagID); err != nil {
			return fmt.Errorf("setting tag %s on task %s: %w", tagID, taskID, err)
		}
	}

	return nil
}
