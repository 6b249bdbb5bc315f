package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nvoropaev/scope/internal/model"
)

// AddNote inserts a new note for a task.
func (s *SQLiteStore) AddNote(ctx context.Context, note model.Note) (*model.Note, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, model.Invalid("content", "content must not be empty")
	}
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_notes (id, task_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		note.ID, note.TaskID, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding note: %w", err)
	}
	return &note, nil
}

// UpdateNote rewrites a note's content.
func (s *SQLiteStore) UpdateNote(ctx context.Context, note model.Note) error {
	if strings.TrimSpace(note.Content) == "" {
		return model.Invalid("content", "content must not be empty")
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE task_notes SET content = ?, updated_at = ? WHERE id = ?",
		note.Content, time.Now().UTC(), note.ID,
	)
	if err != nil {
		return fmt.Errorf("updating note %s: %w", note.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("note", note.ID)
	}
	return nil
}

// DeleteNote removes a note by ID.
func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM task_notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("note", id)
	}
	return nil
}

// GetNotesForTask retrieves a task's notes, newest first.
func (s *SQLiteStore) GetNotesForTask(
	ctx context.Context,
	taskID string,
) ([]model.Note, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM task_notes WHERE task_id = ? ORDER BY created_at DESC",
		taskID)
	if err != nil {
		return nil, fmt.Errorf("querying notes for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.TaskID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
