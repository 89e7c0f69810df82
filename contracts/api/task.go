package api

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"

	DefaultTaskType = "task"
)

type Task struct {
	ID                    int        `json:"id"`
	Name                  string     `json:"name"`
	Type                  string     `json:"type"`
	ProjectID             *int       `json:"project_id"`
	Description           string     `json:"description"`
	Status                string     `json:"status"`
	CreatedAt             time.Time  `json:"created_at"`
	DueDate               *time.Time `json:"due_date"`
	PlannedCompletionDate *time.Time `json:"planned_completion_date"`
	ActualCompletionDate  *time.Time `json:"actual_completion_date"`
	Progress              int        `json:"progress"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// CreateTaskRequest is the typed body accepted by POST /api/tasks. The
// created_at override is allowed so imported tasks can keep their original
// creation time.
type CreateTaskRequest struct {
	Name                  string     `json:"name"`
	Type                  string     `json:"type"`
	ProjectID             *int       `json:"project_id"`
	Description           string     `json:"description"`
	Status                string     `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	CreatedAt             *time.Time `json:"created_at"`
	DueDate               *time.Time `json:"due_date"`
	PlannedCompletionDate *time.Time `json:"planned_completion_date"`
	ActualCompletionDate  *time.Time `json:"actual_completion_date"`
	Progress              *int       `json:"progress" binding:"omitempty,min=0,max=100"`
}

func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("Task name is required")
	}
	return nil
}

// ApplyDefaults fills every omitted optional field with its documented
// default. After this call Progress and CreatedAt are never nil.
func (r *CreateTaskRequest) ApplyDefaults(now time.Time) {
	if r.Type == "" {
		r.Type = DefaultTaskType
	}
	if r.Status == "" {
		r.Status = StatusTodo
	}
	if r.CreatedAt == nil {
		r.CreatedAt = &now
	}
	if r.Progress == nil {
		zero := 0
		r.Progress = &zero
	}
}

// UpdateTaskRequest carries a partial overwrite; nil fields are left
// untouched.
type UpdateTaskRequest struct {
	Name                  *string    `json:"name"`
	Type                  *string    `json:"type"`
	ProjectID             *int       `json:"project_id"`
	Description           *string    `json:"description"`
	Status                *string    `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	CreatedAt             *time.Time `json:"created_at"`
	DueDate               *time.Time `json:"due_date"`
	PlannedCompletionDate *time.Time `json:"planned_completion_date"`
	ActualCompletionDate  *time.Time `json:"actual_completion_date"`
	Progress              *int       `json:"progress" binding:"omitempty,min=0,max=100"`
}
