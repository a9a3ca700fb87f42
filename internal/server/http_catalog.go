package server

import (
	"net/http"

	"github.com/alfredjeanlab/lanes/internal/catalog"
	"github.com/alfredjeanlab/lanes/internal/model"
)

// handleGetCatalog handles GET /v1/catalog. It returns the raw catalog
// document with blocks filtered down to what the calling actor may see.
func (s *LanesServer) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	cat := s.catalog.Current()

	visible := make([]model.Block, 0, len(cat.Blocks))
	for _, block := range cat.Blocks {
		if catalog.CanSee(actor, block) {
			visible = append(visible, block)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cat.Categories,
		"blocks":     visible,
	})
}

// handleGetNavigation handles GET /v1/navigation. It returns the composed
// navigation groups for the calling actor: visible blocks grouped by
// category, declared categories first, discovered ones trailing.
func (s *LanesServer) handleGetNavigation(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	groups := catalog.Compose(*s.catalog.Current(), actor)
	if groups == nil {
		groups = []model.Group{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}
