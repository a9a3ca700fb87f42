package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/lanes/internal/model"
)

// Actor identity headers. An upstream gateway authenticates the caller and
// forwards identity through these; the server trusts them as-is.
const (
	headerActorID        = "X-Actor-Id"
	headerActorRoles     = "X-Actor-Roles"
	headerActorSuperuser = "X-Actor-Superuser"
)

type actorContextKey struct{}

// ActorMiddleware resolves the calling actor from the identity headers and
// stores it on the request context. Requests without an actor id are
// rejected; visibility and ownership checks all fail closed without one.
// Open routes (health, schema) are exempt.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isOpenRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		id := strings.TrimSpace(r.Header.Get(headerActorID))
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing actor identity")
			return
		}

		actor := &model.Actor{
			ID:        id,
			Superuser: r.Header.Get(headerActorSuperuser) == "true",
		}
		if raw := r.Header.Get(headerActorRoles); raw != "" {
			for _, role := range strings.Split(raw, ",") {
				if role = strings.TrimSpace(role); role != "" {
					actor.Roles = append(actor.Roles, role)
				}
			}
		}

		ctx := context.WithValue(r.Context(), actorContextKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFrom returns the actor placed on the context by ActorMiddleware.
func actorFrom(ctx context.Context) *model.Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*model.Actor)
	return actor
}

// canAccess reports whether actor may read a submission owned by ownerID.
// Actors see their own submissions; superusers see everything.
func canAccess(actor *model.Actor, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actor.Superuser || actor.ID == ownerID
}
