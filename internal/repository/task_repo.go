package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projectboard/contracts/api"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = "id, name, type, project_id, description, status, created_at, due_date, planned_completion_date, actual_completion_date, progress, updated_at"

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func scanTask(row pgx.Row) (api.Task, error) {
	var t api.Task
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Type,
		&t.ProjectID,
		&t.Description,
		&t.Status,
		&t.CreatedAt,
		&t.DueDate,
		&t.PlannedCompletionDate,
		&t.ActualCompletionDate,
		&t.Progress,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *TaskRepository) List(ctx context.Context) ([]api.Task, error) {
	r.logger.Debug("Listing tasks")
	query := fmt.Sprintf(`
        SELECT %s
        FROM tasks
        ORDER BY created_at DESC
    `, taskColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []api.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to read task rows", zap.Error(err))
		return nil, err
	}

	r.logger.Info("Tasks listed successfully", zap.Int("count", len(tasks)))
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int) (api.Task, error) {
	r.logger.Debug("Fetching task", zap.Int("id", id))
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Task{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch task", zap.Int("id", id), zap.Error(err))
		return api.Task{}, err
	}

	r.logger.Info("Task fetched successfully", zap.Int("id", id))
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
	r.logger.Debug("Inserting task",
		zap.String("name", req.Name),
		zap.String("type", req.Type),
		zap.String("status", req.Status),
	)
	query := fmt.Sprintf(`
        INSERT INTO tasks (name, type, project_id, description, status, created_at, due_date, planned_completion_date, actual_completion_date, progress)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING %s
    `, taskColumns)

	t, err := scanTask(r.db.QueryRow(ctx, query,
		req.Name,
		req.Type,
		req.ProjectID,
		req.Description,
		req.Status,
		req.CreatedAt,
		req.DueDate,
		req.PlannedCompletionDate,
		req.ActualCompletionDate,
		req.Progress,
	))
	if err != nil {
		r.logger.Error("Failed to insert task", zap.String("name", req.Name), zap.Error(err))
		return api.Task{}, err
	}

	r.logger.Info("Task inserted successfully", zap.Int("id", t.ID), zap.String("name", t.Name))
	return t, nil
}

// buildTaskUpdate assembles the SET clause from the provided fields only.
// updated_at is always refreshed.
func buildTaskUpdate(req api.UpdateTaskRequest) ([]string, []any) {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Type != nil {
		add("type", *req.Type)
	}
	if req.ProjectID != nil {
		add("project_id", *req.ProjectID)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.CreatedAt != nil {
		add("created_at", *req.CreatedAt)
	}
	if req.DueDate != nil {
		add("due_date", *req.DueDate)
	}
	if req.PlannedCompletionDate != nil {
		add("planned_completion_date", *req.PlannedCompletionDate)
	}
	if req.ActualCompletionDate != nil {
		add("actual_completion_date", *req.ActualCompletionDate)
	}
	if req.Progress != nil {
		add("progress", *req.Progress)
	}

	set = append(set, "updated_at = now()")
	return set, args
}

func (r *TaskRepository) Update(ctx context.Context, id int, req api.UpdateTaskRequest) (api.Task, error) {
	r.logger.Debug("Updating task", zap.Int("id", id))

	set, args := buildTaskUpdate(req)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), taskColumns)

	t, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Task{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update task", zap.Int("id", id), zap.Error(err))
		return api.Task{}, err
	}

	r.logger.Info("Task updated successfully", zap.Int("id", id))
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	r.logger.Debug("Deleting task", zap.Int("id", id))

	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int("id", id), zap.Error(err))
		return err
	}

	r.logger.Info("Task deleted successfully",
		zap.Int("id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}
