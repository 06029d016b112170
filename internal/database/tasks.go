package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskloop/taskloop/internal/models"
)

// TaskRepository handles task database operations. Every query is scoped
// by owner in SQL, so a task belonging to another user is indistinguishable
// from one that does not exist.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, owner_id, title, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Completed,
		now,
		now,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// Get retrieves a task by ID within the owner's scope
func (r *TaskRepository) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	var completedAt sql.NullTime

	query := `
		SELECT id, owner_id, title, completed, created_at, updated_at, completed_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	err := r.db.QueryRowContext(ctx, query, taskID, ownerID).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}

// ListByOwner retrieves all tasks belonging to an owner, newest first
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	query := `
		SELECT id, owner_id, title, completed, created_at, updated_at, completed_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		var completedAt sql.NullTime

		err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
			&completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		if completedAt.Valid {
			task.CompletedAt = &completedAt.Time
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Update updates an existing task within the owner's scope
func (r *TaskRepository) Update(ctx context.Context, ownerID uuid.UUID, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, completed = $4, completed_at = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at
	`

	var completedAt sql.NullTime
	if task.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *task.CompletedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		ownerID,
		task.Title,
		task.Completed,
		completedAt,
		time.Now(),
	).Scan(&task.UpdatedAt)

	if err == sql.ErrNoRows {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete deletes a task within the owner's scope
func (r *TaskRepository) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// ToggleComplete flips a task's completion flag within the owner's scope
func (r *TaskRepository) ToggleComplete(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET completed = NOT completed,
		    completed_at = CASE WHEN completed THEN NULL ELSE $3 END,
		    updated_at = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, title, completed, created_at, updated_at, completed_at
	`

	task := &models.Task{}
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, taskID, ownerID, time.Now()).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}
