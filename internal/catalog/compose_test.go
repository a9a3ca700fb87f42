package catalog

import (
	"reflect"
	"testing"

	"github.com/alfredjeanlab/lanes/internal/model"
)

func groupIDs(groups []model.Group) []string {
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.Category.ID)
	}
	return ids
}

func blockNames(g model.Group) []string {
	names := make([]string, 0, len(g.Blocks))
	for _, b := range g.Blocks {
		names = append(names, b.Name)
	}
	return names
}

func TestComposeDeclaredOrderWithTrailingDiscovery(t *testing.T) {
	cat := model.Catalog{
		Categories: []model.Category{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		Blocks: []model.Block{
			{Name: "one", CategoryID: "b"},
			{Name: "two", CategoryID: "a"},
			{Name: "three", CategoryID: "z"},
		},
	}

	groups := Compose(cat, &model.Actor{ID: "u1"})
	if got, want := groupIDs(groups), []string{"a", "b", "z"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("group order = %v, want %v", got, want)
	}
	for i, want := range [][]string{{"two"}, {"one"}, {"three"}} {
		if got := blockNames(groups[i]); !reflect.DeepEqual(got, want) {
			t.Errorf("group %q blocks = %v, want %v", groups[i].Category.ID, got, want)
		}
	}
}

func TestComposeBlockOrderPreserved(t *testing.T) {
	cat := model.Catalog{
		Categories: []model.Category{{ID: "a", Label: "A"}},
		Blocks: []model.Block{
			{Name: "zeta", CategoryID: "a"},
			{Name: "alpha", CategoryID: "a"},
			{Name: "mid", CategoryID: "a"},
		},
	}

	groups := Compose(cat, &model.Actor{ID: "u1"})
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if got, want := blockNames(groups[0]), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("block order = %v, want %v (must match catalog order)", got, want)
	}
}

func TestComposeDeterministic(t *testing.T) {
	cat := model.Catalog{
		Categories: []model.Category{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		Blocks: []model.Block{
			{Name: "one", CategoryID: "b"},
			{Name: "two"},
			{Name: "three", CategoryID: "y"},
			{Name: "four", CategoryID: "x"},
			{Name: "five", CategoryID: "a", RequiredRoles: []string{"ops"}},
		},
	}
	actor := &model.Actor{ID: "u1", Roles: []string{"ops"}}

	first := Compose(cat, actor)
	for range 10 {
		if again := Compose(cat, actor); !reflect.DeepEqual(again, first) {
			t.Fatalf("compose not deterministic: %v vs %v", again, first)
		}
	}
}

func TestComposeFallbackCategory(t *testing.T) {
	cat := model.Catalog{
		Categories: []model.Category{{ID: "a", Label: "A"}},
		Blocks: []model.Block{
			{Name: "homeless"},
			{Name: "housed", CategoryID: "a"},
		},
	}

	groups := Compose(cat, &model.Actor{ID: "u1"})
	if got, want := groupIDs(groups), []string{"a", model.DefaultCategoryID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("group order = %v, want %v", got, want)
	}
	if groups[1].Category.Label != "General" {
		t.Errorf("default category label = %q", groups[1].Category.Label)
	}
}

func TestComposeOmitsEmptyGroups(t *testing.T) {
	cat := model.Catalog{
		Categories: []model.Category{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		Blocks: []model.Block{
			{Name: "secret", CategoryID: "a", RequiredRoles: []string{"ops"}},
			{Name: "ghost", CategoryID: "b", Hidden: true},
			{Name: "open", CategoryID: "b"},
		},
	}

	groups := Compose(cat, &model.Actor{ID: "u1"})
	if got, want := groupIDs(groups), []string{"b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("group order = %v, want %v (filtered-empty categories omitted)", got, want)
	}
	if got, want := blockNames(groups[0]), []string{"open"}; !reflect.DeepEqual(got, want) {
		t.Errorf("blocks = %v, want %v", got, want)
	}
}

func TestComposeNilActorSeesOnlyPublicBlocks(t *testing.T) {
	cat := model.Catalog{
		Categories: []model.Category{{ID: "a", Label: "A"}},
		Blocks: []model.Block{
			{Name: "public", CategoryID: "a"},
			{Name: "guarded", CategoryID: "a", RequiredRoles: []string{"ops"}},
		},
	}

	groups := Compose(cat, nil)
	if len(groups) != 1 || len(groups[0].Blocks) != 1 || groups[0].Blocks[0].Name != "public" {
		t.Fatalf("unexpected groups for nil actor: %+v", groups)
	}
}
