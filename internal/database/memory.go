package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskloop/taskloop/internal/models"
)

// MemoryTaskStore is an in-memory TaskStore. It backs the standalone
// (no-database) deployment mode and doubles as the test store. Ownership
// scoping matches the SQL implementation exactly: a task under a different
// owner is reported as not found.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*models.Task
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[uuid.UUID]*models.Task)}
}

// Create stores a new task.
func (s *MemoryTaskStore) Create(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

// Get retrieves a task within the owner's scope.
func (s *MemoryTaskStore) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, ErrTaskNotFound
	}

	copied := *task
	return &copied, nil
}

// ListByOwner retrieves the owner's tasks, newest first.
func (s *MemoryTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*models.Task
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// Update replaces a task's mutable fields within the owner's scope.
func (s *MemoryTaskStore) Update(ctx context.Context, ownerID uuid.UUID, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.OwnerID != ownerID {
		return ErrTaskNotFound
	}

	existing.Title = task.Title
	existing.Completed = task.Completed
	existing.CompletedAt = task.CompletedAt
	existing.UpdatedAt = time.Now()

	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = existing.UpdatedAt
	task.OwnerID = existing.OwnerID
	return nil
}

// Delete removes a task within the owner's scope.
func (s *MemoryTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return ErrTaskNotFound
	}

	delete(s.tasks, taskID)
	return nil
}

// ToggleComplete flips a task's completion flag within the owner's scope.
func (s *MemoryTaskStore) ToggleComplete(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, ErrTaskNotFound
	}

	now := time.Now()
	task.Completed = !task.Completed
	task.UpdatedAt = now
	if task.Completed {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	copied := *task
	return &copied, nil
}

// MemoryUserStore is an in-memory UserStore with case-insensitive email
// uniqueness, matching the unique index on the SQL side.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]*models.User)}
}

// Create stores a new user. Returns ErrEmailTaken on duplicate email.
func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrEmailTaken
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// GetByEmail retrieves a user by email.
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}

	return nil, ErrUserNotFound
}

// GetByID retrieves a user by ID.
func (s *MemoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}
