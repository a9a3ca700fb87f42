package model

import "testing"

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusQueued, StatusRunning, StatusDone, StatusError} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Status{"", "pending", "DONE"} {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusQueued.Terminal() || StatusRunning.Terminal() {
		t.Error("queued/running must not be terminal")
	}
	if !StatusDone.Terminal() || !StatusError.Terminal() {
		t.Error("done/error must be terminal")
	}
}

func TestStatusCanTransitionTo(t *testing.T) {
	for _, tc := range []struct {
		from, to Status
		want     bool
	}{
		{StatusQueued, StatusRunning, true},
		{StatusQueued, StatusDone, false},
		{StatusQueued, StatusError, false},
		{StatusRunning, StatusDone, true},
		{StatusRunning, StatusError, true},
		{StatusRunning, StatusQueued, false},
		{StatusDone, StatusRunning, false},
		{StatusDone, StatusError, false},
		{StatusError, StatusDone, false},
		{StatusError, StatusRunning, false},
	} {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"COMPRAS", "compras"},
		{"  Admin ", "admin"},
		{"ventas", "ventas"},
		{"", ""},
	} {
		if got := NormalizeRole(tc.in); got != tc.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestActorHasRole(t *testing.T) {
	a := &Actor{ID: "u1", Roles: []string{"COMPRAS", " ventas "}}
	if !a.HasRole("compras") {
		t.Error("expected case-insensitive role match")
	}
	if !a.HasRole("VENTAS") {
		t.Error("expected whitespace-normalized role match")
	}
	if a.HasRole("rrhh") {
		t.Error("unexpected role match")
	}
}
