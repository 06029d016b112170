package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskloop/taskloop/internal/models"
)

// Sentinel errors shared by all store implementations. ErrTaskNotFound is
// returned both when no such task exists and when it belongs to another
// owner; callers cannot tell those cases apart, and must not be able to.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// TaskStore is the task persistence interface. Every method takes the
// owner as an explicit parameter, so calling one without an owner scope is
// a compile-time error rather than a convention.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, ownerID uuid.UUID, task *models.Task) error
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
	ToggleComplete(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
}

// UserStore is the account persistence interface.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Ensure concrete types implement the interfaces
var (
	_ TaskStore = (*TaskRepository)(nil)
	_ TaskStore = (*MemoryTaskStore)(nil)
	_ UserStore = (*UserRepository)(nil)
	_ UserStore = (*MemoryUserStore)(nil)
)
