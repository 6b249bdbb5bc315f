package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nvoropaev/scope/internal/model"
)

// AddLink attaches a URL to a task.
func (s *SQLiteStore) AddLink(ctx context.Context, link model.Link) (*model.Link, error) {
	if strings.TrimSpace(link.URL) == "" {
		return nil, model.Invalid("url", "url must not be empty")
	}
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	link.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_links (id, task_id, url, title, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		link.ID, link.TaskID, link.URL, link.Title, link.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding link: %w", err)
	}
	return &link, nil
}

// DeleteLink removes a link by ID.
func (s *SQLiteStore) DeleteLink(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM task_links WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting link %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("link", id)
	}
	return nil
}

// GetLinksForTask retrieves a task's links, newest first.
func (s *SQLiteStore) GetLinksForTask(
	ctx context.Context,
	taskID string,
) ([]model.Link, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM task_links WHERE task_id = ? ORDER BY created_at DESC",
		taskID)
	if err != nil {
		return nil, fmt.Errorf("querying links for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var links []model.Link
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.ID, &l.TaskID, &l.URL, &l.Title, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning link row: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
