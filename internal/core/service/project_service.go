package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

// normalizePage clamps skip/limit to the range the list endpoints accept.
func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}

type ProjectService struct {
	projects ports.ProjectRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewProjectService(projects ports.ProjectRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, logger: logger, now: time.Now}
}

func (s *ProjectService) CreateProject(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	status := domain.ProjectStatus(in.Status)
	if status == "" {
		status = domain.ProjectActive
	}
	if !status.Valid() {
		return nil, domain.Invalid("status must be one of active, completed, cancelled")
	}

	p := &domain.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		Status:      status,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   domain.StoredTime(s.now()),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info().Str("project_id", p.ID).Str("created_by", p.CreatedBy).Msg("project created")
	return p, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, skip, limit int) ([]*domain.Project, error) {
	skip, limit = normalizePage(skip, limit)
	return s.projects.List(ctx, skip, limit)
}

// TaskService checks task references explicitly before insert: the project
// must exist, and so must the assignee when one is given.
type TaskService struct {
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	users    ports.CredentialStore
	logger   zerolog.Logger
	now      func() time.Time
}

func NewTaskService(tasks ports.TaskRepository, projects ports.ProjectRepository, users ports.CredentialStore, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users, logger: logger, now: time.Now}
}

func (s *TaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title is required")
	}
	status := domain.TaskStatus(in.Status)
	if status == "" {
		status = domain.TaskTodo
	}
	if !status.Valid() {
		return nil, domain.Invalid("status must be one of todo, in_progress, done")
	}
	priority := domain.TaskPriority(in.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.Invalid("priority must be one of low, medium, high")
	}

	if _, err := s.projects.FindByID(ctx, in.ProjectID); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, domain.Invalid("project_id does not reference an existing project")
		}
		return nil, fmt.Errorf("lookup project: %w", err)
	}
	if in.AssignedTo != nil {
		if _, err := s.users.FindByID(ctx, *in.AssignedTo); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.Invalid("assigned_to does not reference an existing user")
			}
			return nil, fmt.Errorf("lookup assignee: %w", err)
		}
	}

	var due *time.Time
	if in.DueDate != nil {
		d := in.DueDate.UTC()
		due = &d
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		ProjectID:   in.ProjectID,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   in.CreatedBy,
		DueDate:     due,
		CreatedAt:   domain.StoredTime(s.now()),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("project_id", task.ProjectID).Msg("task created")
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, skip, limit int) ([]*domain.Task, error) {
	skip, limit = normalizePage(skip, limit)
	return s.tasks.List(ctx, skip, limit)
}
