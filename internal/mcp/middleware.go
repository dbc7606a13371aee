package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const actorIDKey contextKey = iota

// ActorHeader carries the acting user over HTTP.
const ActorHeader = "X-Cabinet-Actor"

// getActorID extracts the request-level actor from context.
func getActorID(ctx context.Context) string {
	v, _ := ctx.Value(actorIDKey).(string)
	return v
}

// actorMiddleware extracts the acting user from the X-Cabinet-Actor header
// (HTTP) or _meta.actor_id (stdio).
func actorMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var actorID string

			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				actorID = extra.Header.Get(ActorHeader)
			}

			// Some notifications (like "initialized") have nil params.
			if actorID == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if id, ok := meta["actor_id"].(string); ok {
								actorID = id
							}
						}
					}()
				}
			}

			if actorID != "" {
				ctx = context.WithValue(ctx, actorIDKey, actorID)
			}

			return next(ctx, method, req)
		}
	}
}
