package domain

import (
	"errors"
	"testing"
)

func TestValidateItems(t *testing.T) {
	cases := []struct {
		name  string
		items []OrderItem
		ok    bool
	}{
		{"empty", nil, false},
		{"zero quantity", []OrderItem{{Name: "a", Quantity: 0, Price: 1}}, false},
		{"negative quantity", []OrderItem{{Name: "a", Quantity: -1, Price: 1}}, false},
		{"negative price", []OrderItem{{Name: "a", Quantity: 1, Price: -0.01}}, false},
		{"free item", []OrderItem{{Name: "a", Quantity: 1, Price: 0}}, true},
		{"valid", []OrderItem{{Name: "Widget", Quantity: 2, Price: 5}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateItems(tc.items)
			if tc.ok && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	if !OrderCreated.CanTransitionTo(OrderInProgress) {
		t.Fatalf("created -> in_progress should be allowed")
	}
	if !OrderInProgress.CanTransitionTo(OrderCompleted) {
		t.Fatalf("in_progress -> completed should be allowed")
	}
	if OrderCompleted.CanTransitionTo(OrderCancelled) {
		t.Fatalf("completed is terminal")
	}
	if OrderCreated.CanTransitionTo(OrderCompleted) {
		t.Fatalf("created -> completed should be rejected")
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleEngineer, RoleManager, RoleHead} {
		if !r.Valid() {
			t.Fatalf("role %d should be valid", r)
		}
	}
	if Role(0).Valid() || Role(4).Valid() {
		t.Fatalf("out-of-range roles must be invalid")
	}
}
