// Package catalog loads the declarative catalog document and composes
// role-filtered navigation groups from it.
package catalog

import "github.com/alfredjeanlab/lanes/internal/model"

// bypassRole grants visibility to every non-hidden block regardless of the
// block's required roles. Compared after normalization.
const bypassRole = "admin"

// CanSee reports whether the actor may see the block. Hidden blocks are
// excluded unconditionally. A block with no required roles is visible to
// any authenticated actor. A nil actor (unauthenticated) fails closed when
// roles are required. Superusers and holders of the bypass role see every
// non-hidden block; otherwise visibility is an ANY-of match between the
// actor's roles and the block's required roles, both normalized.
func CanSee(actor *model.Actor, block model.Block) bool {
	if block.Hidden {
		return false
	}

	required := make([]string, 0, len(block.RequiredRoles))
	for _, r := range block.RequiredRoles {
		if n := model.NormalizeRole(r); n != "" {
			required = append(required, n)
		}
	}
	if len(required) == 0 {
		return true
	}

	if actor == nil {
		return false
	}
	if actor.Superuser || actor.HasRole(bypassRole) {
		return true
	}

	for _, want := range required {
		if actor.HasRole(want) {
			return true
		}
	}
	return false
}
