package model

import "time"

// Display defaults shared by projects and tags.
const (
	DefaultColor       = "#7C3AED"
	DefaultProjectIcon = "folder"
)

// Project is a named grouping of tasks with display styling.
type Project struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	Icon        string    `json:"icon" db:"icon"`
	UserID      *string   `json:"user_id,omitempty" db:"user_id"`
	Archived    bool      `json:"archived" db:"archived"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectCounts holds the live task tallies for a project. Counts are
// computed by scanning the task set on read, never cached on the record.
type ProjectCounts struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}
