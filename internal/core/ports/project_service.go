package ports

import (
	"context"
	"time"

	"github.com/opsdesk/platform/internal/core/domain"
)

type CreateProjectInput struct {
	Name        string
	Description string
	Status      string // empty = active
	CreatedBy   string
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string // empty = todo
	Priority    string // empty = medium
	ProjectID   string
	AssignedTo  *string
	CreatedBy   string
	DueDate     *time.Time
}

type ProjectService interface {
	CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context, skip, limit int) ([]*domain.Project, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, skip, limit int) ([]*domain.Task, error)
}
