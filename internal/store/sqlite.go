package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nvoropaev/scope/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode and foreign keys, and runs any pending schema
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL improves concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Foreign keys must be on for the parent->child cascades to fire.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		slog.Debug("applied schema migration", "version", m.version)
	}

	return nil
}

// rowScanner covers both sqlx.Row and sqlx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask scans a task row in table column order.
func scanTask(row rowScanner) (model.Task, error) {
	var (
		task         model.Task
		completedInt int
		projectID    *string
		userID       *string
		completedAt  *time.Time
		dueDate      *time.Time
		dueTime      *string
		reminder     *time.Time
	)

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &projectID, &userID,
		&task.Priority, &completedInt, &completedAt,
		&dueDate, &dueTime, &reminder,
		&task.SortOrder, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.ProjectID = projectID
	task.UserID = userID
	task.Completed = completedInt != 0
	task.CompletedAt = completedAt
	task.DueDate = dueDate
	task.DueTime = dueTime
	task.Reminder = reminder

	return task, nil
}

// scanProject scans a project row in table column order.
func scanProject(row rowScanner) (model.Project, error) {
	var (
		project     model.Project
		userID      *string
		archivedInt int
	)

	err := row.Scan(
		&project.ID, &project.Name, &project.Description,
		&project.Color, &project.Icon, &userID, &archivedInt,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("scanning project row: %w", err)
	}

	project.UserID = userID
	project.Archived = archivedInt != 0

	return project, nil
}

// scanTag scans a tag row in table column order.
func scanTag(row rowScanner) (model.Tag, error) {
	var (
		tag    model.Tag
		userID *string
	)

	err := row.Scan(&tag.ID, &tag.Name, &tag.Color, &userID, &tag.CreatedAt)
	if err != nil {
		return model.Tag{}, fmt.Errorf("scanning tag row: %w", err)
	}

	tag.UserID = userID
	return tag, nil
}

// scanChecklistItem scans a checklist_items row in table column order.
func scanChecklistItem(row rowScanner) (model.ChecklistItem, error) {
	var (
		item    model.ChecklistItem
		doneInt int
	)

	err := row.Scan(
		&item.ID, &item.TaskID, &item.Text, &doneInt,
		&item.SortOrder, &item.CreatedAt,
	)
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("scanning checklist item row: %w", err)
	}

	item.Done = doneInt != 0
	return item, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
