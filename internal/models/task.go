package models

import "time"

type Task struct {
	ID          string
	Description string
	Completed   bool
	// Owner is the ID of the user the task belongs to.
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
