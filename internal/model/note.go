package model

import "time"

// Note is a free-text comment attached to a task.
// Its lifecycle is bound to the parent task (CASCADE delete).
type Note struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
