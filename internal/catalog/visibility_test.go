package catalog

import (
	"testing"

	"github.com/alfredjeanlab/lanes/internal/model"
)

func TestCanSeeHiddenAlwaysFalse(t *testing.T) {
	block := model.Block{Name: "x", Hidden: true}
	actors := []*model.Actor{
		nil,
		{ID: "u1"},
		{ID: "root", Superuser: true},
		{ID: "a", Roles: []string{"admin"}},
	}
	for _, a := range actors {
		if CanSee(a, block) {
			t.Errorf("hidden block visible to %+v", a)
		}
	}
}

func TestCanSeeNoRequiredRoles(t *testing.T) {
	block := model.Block{Name: "x"}
	if !CanSee(&model.Actor{ID: "u1"}, block) {
		t.Error("block without required roles should be visible to any actor")
	}
	// Whitespace-only role entries count as no requirement.
	block.RequiredRoles = []string{"  ", ""}
	if !CanSee(&model.Actor{ID: "u1"}, block) {
		t.Error("blank required roles should behave as empty")
	}
}

func TestCanSeeUnauthenticated(t *testing.T) {
	if CanSee(nil, model.Block{Name: "x", RequiredRoles: []string{"compras"}}) {
		t.Error("nil actor must not see role-guarded block")
	}
	if !CanSee(nil, model.Block{Name: "x"}) {
		t.Error("public block visibility does not depend on actor")
	}
}

func TestCanSeeSuperuserAndAdminBypass(t *testing.T) {
	block := model.Block{Name: "x", RequiredRoles: []string{"compras"}}
	if !CanSee(&model.Actor{ID: "root", Superuser: true}, block) {
		t.Error("superuser should see any non-hidden block")
	}
	if !CanSee(&model.Actor{ID: "a", Roles: []string{"ADMIN"}}, block) {
		t.Error("admin role (case-insensitive) should bypass role checks")
	}
}

func TestCanSeeAnyOfMatch(t *testing.T) {
	block := model.Block{Name: "x", RequiredRoles: []string{"compras", "ventas"}}
	for _, tc := range []struct {
		roles []string
		want  bool
	}{
		{[]string{"COMPRAS"}, true}, // case-mismatched, normalization applies
		{[]string{" ventas "}, true},
		{[]string{"rrhh", "ventas"}, true}, // any-of, not all-of
		{[]string{"rrhh"}, false},
		{nil, false},
	} {
		actor := &model.Actor{ID: "u1", Roles: tc.roles}
		if got := CanSee(actor, block); got != tc.want {
			t.Errorf("CanSee(roles=%v) = %v, want %v", tc.roles, got, tc.want)
		}
	}
}
