package models

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a single to-do item. OwnerID is set from the
// authenticated identity of the creating request and never changes
// afterwards.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
