package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
)

type stubProjectRepo struct {
	items []*domain.Project
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) error {
	clone := *p
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	for _, p := range r.items {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) List(_ context.Context, skip, limit int) ([]*domain.Project, error) {
	return page(r.items, skip, limit), nil
}

type stubTaskRepo struct {
	items []*domain.Task
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	clone := *t
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubTaskRepo) List(_ context.Context, skip, limit int) ([]*domain.Task, error) {
	return page(r.items, skip, limit), nil
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

func TestNormalizePage(t *testing.T) {
	cases := []struct{ skip, limit, wantSkip, wantLimit int }{
		{0, 0, 0, 100},
		{-5, 10, 0, 10},
		{3, 500, 3, 100},
	}
	for _, tc := range cases {
		s, l := normalizePage(tc.skip, tc.limit)
		if s != tc.wantSkip || l != tc.wantLimit {
			t.Fatalf("normalizePage(%d,%d) = %d,%d", tc.skip, tc.limit, s, l)
		}
	}
}

func TestProjectService_CreateProject(t *testing.T) {
	repo := &stubProjectRepo{}
	svc := NewProjectService(repo, zerolog.Nop())

	p, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Name: " Apollo ", CreatedBy: "u-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Apollo" || p.Status != domain.ProjectActive || p.CreatedBy != "u-1" {
		t.Fatalf("unexpected project: %+v", p)
	}

	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Name: ""}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Name: "x", Status: "paused"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad status, got %v", err)
	}
}

func TestProjectService_ListProjects_Paginates(t *testing.T) {
	repo := &stubProjectRepo{}
	svc := NewProjectService(repo, zerolog.Nop())
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{Name: "p", CreatedBy: "u-1"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := svc.ListProjects(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != repo.items[1].ID {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func newTaskFixture(t *testing.T) (*TaskService, *stubTaskRepo, *domain.Project, *domain.User) {
	t.Helper()
	projects := &stubProjectRepo{}
	tasks := &stubTaskRepo{}
	users := newStubCredentialStore()

	owner, err := users.Create(context.Background(), &domain.User{Username: "bob", Email: "bob@x.com", IsActive: true})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	project, err := NewProjectService(projects, zerolog.Nop()).CreateProject(context.Background(), ports.CreateProjectInput{Name: "Apollo", CreatedBy: owner.ID})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return NewTaskService(tasks, projects, users, zerolog.Nop()), tasks, project, owner
}

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	svc, tasks, project, owner := newTaskFixture(t)
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))

	task, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{
		Title:      "Design",
		ProjectID:  project.ID,
		AssignedTo: &owner.ID,
		CreatedBy:  owner.ID,
		DueDate:    &due,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != domain.TaskTodo || task.Priority != domain.PriorityMedium {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	if task.DueDate == nil || task.DueDate.Location() != time.UTC || !task.DueDate.Equal(due) {
		t.Fatalf("due date must be normalized to UTC, got %v", task.DueDate)
	}
	if len(tasks.items) != 1 {
		t.Fatalf("task not persisted")
	}
}

func TestTaskService_CreateTask_References(t *testing.T) {
	svc, tasks, project, owner := newTaskFixture(t)
	ghost := "ghost"

	_, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "x", ProjectID: "missing", CreatedBy: owner.ID})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown project, got %v", err)
	}

	_, err = svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "x", ProjectID: project.ID, AssignedTo: &ghost, CreatedBy: owner.ID})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown assignee, got %v", err)
	}

	if len(tasks.items) != 0 {
		t.Fatalf("invalid tasks must not be persisted")
	}
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	svc, _, project, owner := newTaskFixture(t)
	cases := map[string]ports.CreateTaskInput{
		"empty title":  {Title: " ", ProjectID: project.ID, CreatedBy: owner.ID},
		"bad status":   {Title: "x", Status: "blocked", ProjectID: project.ID, CreatedBy: owner.ID},
		"bad priority": {Title: "x", Priority: "urgent", ProjectID: project.ID, CreatedBy: owner.ID},
	}
	for name, in := range cases {
		if _, err := svc.CreateTask(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}
