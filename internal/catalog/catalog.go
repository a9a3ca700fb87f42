package catalog

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/lanes/internal/model"
)

// Load reads and decodes a TOML catalog document from path.
func Load(path string) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML catalog document and validates it.
func Parse(data []byte) (*model.Catalog, error) {
	var cat model.Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func validate(cat *model.Catalog) error {
	seen := make(map[string]bool, len(cat.Categories))
	for _, c := range cat.Categories {
		if c.ID == "" {
			return fmt.Errorf("catalog: category with empty id")
		}
		if seen[c.ID] {
			return fmt.Errorf("catalog: duplicate category %q", c.ID)
		}
		seen[c.ID] = true
	}
	names := make(map[string]bool, len(cat.Blocks))
	for _, b := range cat.Blocks {
		if b.Name == "" {
			return fmt.Errorf("catalog: block with empty name")
		}
		if names[b.Name] {
			return fmt.Errorf("catalog: duplicate block %q", b.Name)
		}
		names[b.Name] = true
	}
	return nil
}

// Snapshot holds the current catalog behind an atomic pointer. Readers get
// an immutable value; Reload swaps the whole snapshot so a composition in
// flight never observes a partially-updated catalog.
type Snapshot struct {
	path string
	cur  atomic.Pointer[model.Catalog]
}

// Open loads the catalog at path and returns a snapshot holder for it.
func Open(path string) (*Snapshot, error) {
	cat, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{path: path}
	s.cur.Store(cat)
	return s, nil
}

// NewSnapshot wraps an already-built catalog (used by tests and embedders).
func NewSnapshot(cat *model.Catalog) *Snapshot {
	s := &Snapshot{}
	s.cur.Store(cat)
	return s
}

// Current returns the catalog as of the last successful load.
func (s *Snapshot) Current() *model.Catalog {
	return s.cur.Load()
}

// Reload re-reads the catalog from disk and atomically replaces the
// snapshot. On error the previous snapshot stays in place.
func (s *Snapshot) Reload() error {
	if s.path == "" {
		return fmt.Errorf("catalog: snapshot has no backing file")
	}
	cat, err := Load(s.path)
	if err != nil {
		return err
	}
	s.cur.Store(cat)
	return nil
}
