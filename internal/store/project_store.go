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

// CreateProject inserts a new project. Color and icon default to the
// model display defaults when unset.
func (s *SQLiteStore) CreateProject(
	ctx context.Context,
	project model.Project,
) (*model.Project, error) {
	if strings.TrimSpace(project.Name) == "" {
		return nil, model.Invalid("name", "name must not be empty")
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.Color == "" {
		project.Color = model.DefaultColor
	}
	if project.Icon == "" {
		project.Icon = model.DefaultProjectIcon
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, color, icon, user_id, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, project.Color, project.Icon,
		project.UserID, boolToInt(project.Archived), project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return &project, nil
}

// UpdateProject writes the full project row.
func (s *SQLiteStore) UpdateProject(ctx context.Context, project model.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return model.Invalid("name", "name must not be empty")
	}
	project.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE projects SET
			name = ?, description = ?, color = ?, icon = ?,
			archived = ?, updated_at = ?
		WHERE id = ?`,
		project.Name, project.Description, project.Color, project.Icon,
		boolToInt(project.Archived), project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", project.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("project", project.ID)
	}
	return nil
}

// DeleteProject removes a project and, via the schema cascades, every
// owned task and their children. Destructive and irreversible; there is
// no soft delete. Returns the file refs of all attachments the cascade
// removed.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var fileRefs []string
	err = tx.SelectContext(ctx, &fileRefs, `
		SELECT a.file_ref FROM task_attachments a
		INNER JOIN tasks t ON a.task_id = t.id
		WHERE t.project_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("collecting attachment refs for project %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("deleting project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, notFound("project", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing project delete: %w", err)
	}
	return fileRefs, nil
}

// GetProjectByID retrieves a single project by ID.
func (s *SQLiteStore) GetProjectByID(
	ctx context.Context,
	id string,
) (*model.Project, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM projects WHERE id = ?", id)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("project", id)
		}
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return &project, nil
}

// GetProjects retrieves projects newest first, optionally including
// archived ones.
func (s *SQLiteStore) GetProjects(
	ctx context.Context,
	includeArchived bool,
) ([]model.Project, error) {
	query := "SELECT * FROM projects"
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ArchiveProject sets the archived flag. Owned tasks are untouched;
// archiving is a visibility filter applied by listing queries.
func (s *SQLiteStore) ArchiveProject(ctx context.Context, id string) error {
	return s.setArchived(ctx, id, true)
}

// RestoreProject clears the archived flag.
func (s *SQLiteStore) RestoreProject(ctx context.Context, id string) error {
	return s.setArchived(ctx, id, false)
}

func (s *SQLiteStore) setArchived(ctx context.Context, id string, archived bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET archived = ?, updated_at = ? WHERE id = ?",
		boolToInt(archived), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting archived on project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound("project", id)
	}
	return nil
}

// ProjectTaskCounts scans the project's task set and tallies active and
// completed tasks. Always computed on demand so the counts reflect the
// live task set.
func (s *SQLiteStore) ProjectTaskCounts(
	ctx context.Context,
	id string,
) (*model.ProjectCounts, error) {
	var counts model.ProjectCounts
	err := s.db.QueryRowxContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN completed = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END), 0)
		FROM tasks WHERE project_id = ?`, id).
		Scan(&counts.Active, &counts.Completed)
	if err != nil {
		return nil, fmt.Errorf("counting tasks for project %s: %w", id, err)
	}
	return &counts, nil
}
