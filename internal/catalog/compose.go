package catalog

import "github.com/alfredjeanlab/lanes/internal/model"

// Compose groups the catalog's visible blocks by category for the given
// actor. Declared categories keep their declared order (their position in
// catalog.categories is authoritative). Categories only discovered through
// blocks — including the default fallback for blocks with no category —
// are appended after all declared categories in first-discovery order.
// Blocks are never reordered within a category, and categories with no
// visible blocks are omitted entirely. The output is deterministic for a
// given (catalog, actor) pair.
func Compose(cat model.Catalog, actor *model.Actor) []model.Group {
	index := make(map[string]int, len(cat.Categories))
	labels := make(map[string]string, len(cat.Categories))
	for i, c := range cat.Categories {
		if _, ok := index[c.ID]; ok {
			continue
		}
		index[c.ID] = i
		labels[c.ID] = c.Label
	}

	next := len(cat.Categories)
	buckets := make(map[string][]model.Block)
	var order []string

	for _, b := range cat.Blocks {
		if !CanSee(actor, b) {
			continue
		}

		id := b.CategoryID
		if id == "" {
			id = model.DefaultCategoryID
		}
		if _, ok := buckets[id]; !ok {
			if _, declared := index[id]; !declared {
				// Undeclared categories trail all declared ones, in the
				// order blocks first reference them.
				index[id] = next
				next++
			}
			order = append(order, id)
		}
		buckets[id] = append(buckets[id], b)
	}

	groups := make([]model.Group, 0, len(order))
	for _, id := range order {
		groups = append(groups, model.Group{
			Category: model.Category{ID: id, Label: labelFor(id, labels)},
			Blocks:   buckets[id],
		})
	}

	// order holds buckets in first-use order; emit them by assigned
	// category index instead. Insertion sort keeps this stable.
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && index[groups[j].Category.ID] < index[groups[j-1].Category.ID]; j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
		}
	}

	return groups
}

func labelFor(id string, labels map[string]string) string {
	if l := labels[id]; l != "" {
		return l
	}
	if id == model.DefaultCategoryID {
		return "General"
	}
	return id
}
