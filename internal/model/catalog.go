package model

// DefaultCategoryID is the bucket for blocks whose category is absent or
// does not match any declared category.
const DefaultCategoryID = "general"

// Category is one named group in the catalog. The position of a category
// in Catalog.Categories is its authoritative ordering.
type Category struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label" toml:"label"`
}

// Panel describes the embeddable UI surface for a block. The service treats
// it as opaque data handed to the rendering collaborator.
type Panel struct {
	URL   string `json:"url" toml:"url"`
	Title string `json:"title,omitempty" toml:"title"`
}

// Block is one catalog entry referencing an automation's UI panel.
// An empty RequiredRoles list means the block is visible to any
// authenticated actor.
type Block struct {
	Name          string   `json:"name" toml:"name"`
	CategoryID    string   `json:"category_id,omitempty" toml:"category"`
	RequiredRoles []string `json:"required_roles,omitempty" toml:"required_roles"`
	Hidden        bool     `json:"hidden,omitempty" toml:"hidden"`
	Panel         Panel    `json:"panel" toml:"panel"`
}

// Catalog is the declarative description of categories and blocks. A loaded
// catalog is an immutable snapshot; reloads replace the whole value.
type Catalog struct {
	Categories []Category `json:"categories" toml:"categories"`
	Blocks     []Block    `json:"blocks" toml:"blocks"`
}

// Group is one composed navigation bucket: a category and the visible
// blocks assigned to it, in catalog order.
type Group struct {
	Category Category `json:"category"`
	Blocks   []Block  `json:"blocks"`
}
