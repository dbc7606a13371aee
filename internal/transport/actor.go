package transport

import (
	"net/http"

	"github.com/rpggio/cabinet/internal/domain/user"
	"github.com/rpggio/cabinet/internal/mcp"
)

// ActorDirectory resolves actor IDs.
type ActorDirectory interface {
	Find(id string) (user.User, bool)
}

// ActorMiddleware rejects requests whose actor header names an unknown or
// inactive user. Requests without the header pass through; tools that need
// an actor then require it as an argument.
func ActorMiddleware(actors ActorDirectory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := r.Header.Get(mcp.ActorHeader)
			if actorID == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, ok := actors.Find(actorID)
			if !ok {
				http.Error(w, "unknown actor", http.StatusUnauthorized)
				return
			}
			if !u.IsActive {
				http.Error(w, "inactive actor", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
