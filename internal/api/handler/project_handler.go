package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
)

type ProjectHandler struct {
	projects ports.ProjectService
	tasks    ports.TaskService
}

func NewProjectHandler(projects ports.ProjectService, tasks ports.TaskService) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks}
}

type createProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"project_id" validate:"required"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateProject handles POST /v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  ErrorEnvelope
// @Router       /v1/projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.projects.CreateProject(c.Request().Context(), ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		CreatedBy:   user.ID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p)
}

// ListProjects handles GET /v1/projects?skip=&limit=.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset (default 0)"
// @Param        limit  query     int  false  "Page size (default 100, max 100)"
// @Success      200    {array}   domain.Project
// @Router       /v1/projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	skip, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	out, err := h.projects.ListProjects(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// CreateTask handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  ErrorEnvelope
// @Router       /v1/tasks [post]
func (h *ProjectHandler) CreateTask(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	t, err := h.tasks.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   user.ID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, t)
}

// ListTasks handles GET /v1/tasks?skip=&limit=.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset (default 0)"
// @Param        limit  query     int  false  "Page size (default 100, max 100)"
// @Success      200    {array}   domain.Task
// @Router       /v1/tasks [get]
func (h *ProjectHandler) ListTasks(c echo.Context) error {
	skip, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	out, err := h.tasks.ListTasks(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// pageParams reads skip/limit; absent values are passed as zero and
// normalized by the service.
func pageParams(c echo.Context) (skip, limit int, err error) {
	if skip, err = intQuery(c, "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = intQuery(c, "limit"); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid("%s must be a non-negative integer", name)
	}
	return n, nil
}
