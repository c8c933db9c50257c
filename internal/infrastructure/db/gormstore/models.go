package gormstore

import (
	"time"

	"github.com/opsdesk/platform/internal/core/domain"
)

type userModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string
	Role         int `gorm:"not null"`
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type projectModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"index;not null"`
	Description string
	Status      string `gorm:"size:16;not null"`
	CreatedBy   string `gorm:"size:36;index;not null"`
	CreatedAt   time.Time
}

func (projectModel) TableName() string { return "projects" }

func (m projectModel) toDomain() *domain.Project {
	return &domain.Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Status:      domain.ProjectStatus(m.Status),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type taskModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"index;not null"`
	Description string
	Status      string  `gorm:"size:16;not null"`
	Priority    string  `gorm:"size:16;not null"`
	ProjectID   string  `gorm:"size:36;index;not null"`
	AssignedTo  *string `gorm:"size:36;index"`
	CreatedBy   string  `gorm:"size:36;not null"`
	DueDate     *time.Time
	CreatedAt   time.Time
}

func (taskModel) TableName() string { return "tasks" }

func (m taskModel) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		Priority:    domain.TaskPriority(m.Priority),
		ProjectID:   m.ProjectID,
		AssignedTo:  m.AssignedTo,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.DueDate != nil {
		due := m.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}
