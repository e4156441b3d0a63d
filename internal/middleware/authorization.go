package middleware

import (
	"net/http"

	"catalog-api/internal/policy"

	"go.uber.org/zap"
)

// RequireAction gates a handler behind a policy decision for the given
// action and resource. Runs after AuthMiddleware, which populates the
// principal in the request context.
func RequireAction(action policy.Action, resource policy.Resource, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())

			if !policy.Allowed(principal, action, resource) {
				logger.Warn("Action denied by policy",
					zap.String("user_id", principal.UserID),
					zap.String("role", principal.Role),
					zap.String("action", string(action)),
					zap.String("resource", string(resource)),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
