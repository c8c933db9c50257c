package ports

import (
	"context"

	"github.com/opsdesk/platform/internal/core/domain"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Project, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context, skip, limit int) ([]*domain.Task, error)
}
