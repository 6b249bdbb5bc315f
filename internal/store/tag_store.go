package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nvoropaev/scope/internal/model"
)

// CreateTag inserts a new tag, defaulting the color when unset.
func (s *SQLiteStore) CreateTag(ctx context.Context, tag model.Tag) (*model.Tag, error) {
	if strings.TrimSpace(tag.Name) == "" {
		return nil, model.Invalid("name", "name must not be empty")
	}
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if tag.Color == "" {
		tag.Color = model.DefaultColor
	}
	tag.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, color, user_id, created_at) VALUES (?, ?, ?, ?, ?)",
		tag.ID, tag.Name, tag.Color, tag.UserID, tag.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return &tag, nil
}

// UpdateTag updates a tag's name and color.
func (s *SQLiteStore) UpdateTag(ctx context.Context, tag model.Tag) error {
	if strings.TrimSpace(tag.Name) == "" {
		return model.Invalid("name", "name must not be empty")
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE tags SET name = ?, color = ? WHERE id = ?",
		tag.Name, tag.Color, tag.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tag %s: %w", tag.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("tag", tag.ID)
	}
	return nil
}

// DeleteTag removes a tag. CASCADE on task_tags removes associations;
// tasks themselves are untouched.
func (s *SQLiteStore) DeleteTag(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tag %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("tag", id)
	}
	return nil
}

// GetTags retrieves all tags ordered by name.
func (s *SQLiteStore) GetTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagsForTask retrieves all tags associated with a task.
func (s *SQLiteStore) GetTagsForTask(
	ctx context.Context,
	taskID string,
) ([]model.Tag, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT t.* FROM tags t
		INNER JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying tags for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SetTaskTags replaces all tag associations for a task in one
// transaction.
func (s *SQLiteStore) SetTaskTags(
	ctx context.Context,
	taskID string,
	tagIDs []string,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setTaskTagsTx(ctx, tx, taskID, tagIDs); err != nil {
		return err
	}

	return tx.Commit()
}
