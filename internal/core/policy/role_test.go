package policy

import (
	"errors"
	"testing"

	"github.com/opsdesk/platform/internal/core/domain"
)

func TestRoleName(t *testing.T) {
	cases := map[domain.Role]string{
		domain.RoleEngineer: "Engineer",
		domain.RoleManager:  "Manager",
		domain.RoleHead:     "Head",
		domain.Role(0):      "Unknown role",
		domain.Role(42):     "Unknown role",
	}
	for role, want := range cases {
		if got := RoleName(role); got != want {
			t.Fatalf("RoleName(%d) = %q, want %q", role, got, want)
		}
	}
}

func TestCapabilities_ReturnsCopy(t *testing.T) {
	caps := Capabilities(domain.RoleEngineer)
	if len(caps) == 0 {
		t.Fatalf("engineer should have capabilities")
	}
	caps[0] = "mutated"
	if Capabilities(domain.RoleEngineer)[0] == "mutated" {
		t.Fatalf("Capabilities must not expose the internal table")
	}
	if len(Capabilities(domain.Role(9))) != 0 {
		t.Fatalf("unknown role should have no capabilities")
	}
}

func TestAllows(t *testing.T) {
	if Allows(domain.RoleEngineer, CapProjectsWrite) {
		t.Fatalf("engineer should not hold projects:write")
	}
	if !Allows(domain.RoleManager, CapProjectsWrite) {
		t.Fatalf("manager should hold projects:write")
	}
	if !Allows(domain.RoleHead, CapUsersManage) {
		t.Fatalf("head should hold users:manage")
	}
}

func TestActiveOnly(t *testing.T) {
	var a Authorizer = ActiveOnly{}

	// Role is informational: an engineer may still write projects.
	engineer := &domain.User{Role: domain.RoleEngineer, IsActive: true}
	if err := a.Authorize(engineer, CapProjectsWrite); err != nil {
		t.Fatalf("active engineer should be allowed, got %v", err)
	}

	disabled := &domain.User{Role: domain.RoleHead, IsActive: false}
	if err := a.Authorize(disabled, CapOrdersRead); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for inactive user, got %v", err)
	}
	if err := a.Authorize(nil, CapOrdersRead); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for nil user, got %v", err)
	}
}
