package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nvoropaev/scope/internal/model"
)

// AddAttachment records a stored file against a task. The caller is
// responsible for having written the blob; FileRef must point at it.
func (s *SQLiteStore) AddAttachment(
	ctx context.Context,
	att model.Attachment,
) (*model.Attachment, error) {
	if strings.TrimSpace(att.FileRef) == "" {
		return nil, model.Invalid("file", "file reference must not be empty")
	}
	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	att.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_attachments (id, task_id, file_ref, filename, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		att.ID, att.TaskID, att.FileRef, att.Filename, att.Size, att.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding attachment: %w", err)
	}
	return &att, nil
}

// DeleteAttachment removes the attachment record and returns the file
// ref so the caller can remove the stored blob. The record deletion is
// the operation of record; blob cleanup is the caller's best-effort
// follow-up.
func (s *SQLiteStore) DeleteAttachment(ctx context.Context, id string) (string, error) {
	att, err := s.GetAttachmentByID(ctx, id)
	if err != nil {
		return "", err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM task_attachments WHERE id = ?", id)
	if err != nil {
		return "", fmt.Errorf("deleting attachment %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return "", notFound("attachment", id)
	}
	return att.FileRef, nil
}

// GetAttachmentByID retrieves a single attachment by ID.
func (s *SQLiteStore) GetAttachmentByID(
	ctx context.Context,
	id string,
) (*model.Attachment, error) {
	var att model.Attachment
	err := s.db.QueryRowxContext(ctx,
		"SELECT * FROM task_attachments WHERE id = ?", id).
		Scan(&att.ID, &att.TaskID, &att.FileRef, &att.Filename, &att.Size, &att.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("attachment", id)
		}
		return nil, fmt.Errorf("getting attachment %s: %w", id, err)
	}
	return &att, nil
}

// GetAttachmentsForTask retrieves a task's attachments, newest first.
func (s *SQLiteStore) GetAttachmentsForTask(
	ctx context.Context,
	taskID string,
) ([]model.Attachment, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM task_attachments WHERE task_id = ? ORDER BY created_at DESC",
		taskID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var atts []model.Attachment
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileRef, &a.Filename, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}
		atts = append(atts, a)
	}
	return atts, rows.Err()
}
