package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/policy"
)

func runWithUser(t *testing.T, mw echo.MiddlewareFunc, user *domain.User) (bool, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if user != nil {
		c.Set(ContextKeyUser, user)
	}

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestRequireAdmin_Allows(t *testing.T) {
	called, err := runWithUser(t, RequireAdmin(), &domain.User{ID: "a", IsActive: true, IsAdmin: true})
	if err != nil || !called {
		t.Fatalf("expected admin to pass, called=%v err=%v", called, err)
	}
}

func TestRequireAdmin_Forbids(t *testing.T) {
	for name, user := range map[string]*domain.User{
		"non-admin": {ID: "b", IsActive: true, Role: domain.RoleHead},
		"anonymous": nil,
	} {
		called, err := runWithUser(t, RequireAdmin(), user)
		if called {
			t.Fatalf("%s: next handler should not run", name)
		}
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", name, err)
		}
	}
}

func TestRequireCapability_RoleIsInformational(t *testing.T) {
	mw := RequireCapability(policy.ActiveOnly{}, policy.CapTasksAssign)

	for _, role := range []domain.Role{domain.RoleEngineer, domain.RoleManager, domain.RoleHead} {
		called, err := runWithUser(t, mw, &domain.User{ID: "u", Role: role, IsActive: true})
		if err != nil || !called {
			t.Fatalf("role %d: expected access, called=%v err=%v", role, called, err)
		}
	}
}

func TestRequireCapability_InactiveDenied(t *testing.T) {
	called, err := runWithUser(t, RequireCapability(policy.ActiveOnly{}, policy.CapProjectsWrite), &domain.User{ID: "u", IsActive: false})
	if called || !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, called=%v err=%v", called, err)
	}
}
