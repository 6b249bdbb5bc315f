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

// AddChecklistItem inserts a new checklist item for a task, appending
// it to the end of the list when no sort order is given.
func (s *SQLiteStore) AddChecklistItem(
	ctx context.Context,
	item model.ChecklistItem,
) (*model.ChecklistItem, error) {
	if strings.TrimSpace(item.Text) == "" {
		return nil, model.Invalid("text", "text must not be empty")
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now().UTC()

	if item.SortOrder == 0 {
		var maxOrder int
		err := s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM checklist_items WHERE task_id = ?",
			item.TaskID)
		if err != nil {
			return nil, fmt.Errorf("getting max checklist sort_order: %w", err)
		}
		item.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (id, task_id, text, done, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.TaskID, item.Text, boolToInt(item.Done),
		item.SortOrder, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding checklist item: %w", err)
	}
	return &item, nil
}

// UpdateChecklistItem updates text and done state of a checklist item.
func (s *SQLiteStore) UpdateChecklistItem(
	ctx context.Context,
	item model.ChecklistItem,
) error {
	if strings.TrimSpace(item.Text) == "" {
		return model.Invalid("text", "text must not be empty")
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE checklist_items SET text = ?, done = ? WHERE id = ?",
		item.Text, boolToInt(item.Done), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating checklist item %s: %w", item.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("checklist item", item.ID)
	}
	return nil
}

// DeleteChecklistItem removes a checklist item by ID.
func (s *SQLiteStore) DeleteChecklistItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM checklist_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting checklist item %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("checklist item", id)
	}
	return nil
}

// ToggleChecklistItem flips the done state of a checklist item and
// returns the item after the flip.
func (s *SQLiteStore) ToggleChecklistItem(
	ctx context.Context,
	id string,
) (*model.ChecklistItem, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE checklist_items SET done = CASE WHEN done = 0 THEN 1 ELSE 0 END WHERE id = ?",
		id)
	if err != nil {
		return nil, fmt.Errorf("toggling checklist item %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, notFound("checklist item", id)
	}

	return s.GetChecklistItemByID(ctx, id)
}

// GetChecklistItemByID retrieves a single checklist item by ID.
func (s *SQLiteStore) GetChecklistItemByID(
	ctx context.Context,
	id string,
) (*model.ChecklistItem, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM checklist_items WHERE id = ?", id)
	item, err := scanChecklistItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("checklist item", id)
		}
		return nil, fmt.Errorf("getting checklist item %s: %w", id, err)
	}
	return &item, nil
}

// ReorderChecklistItem updates the sort order for a checklist item.
func (s *SQLiteStore) ReorderChecklistItem(
	ctx context.Context,
	id string,
	sortOrder int,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE checklist_items SET sort_order = ? WHERE id = ?",
		sortOrder, id)
	if err != nil {
		return fmt.Errorf("reordering checklist item %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("checklist item", id)
	}
	return nil
}

// GetChecklistItems returns all checklist items for a task, ordered by
// sort order then creation time.
func (s *SQLiteStore) GetChecklistItems(
	ctx context.Context,
	taskID string,
) ([]model.ChecklistItem, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM checklist_items WHERE task_id = ? ORDER BY sort_order, created_at",
		taskID)
	if err != nil {
		return nil, fmt.Errorf("querying checklist items: %w", err)
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
