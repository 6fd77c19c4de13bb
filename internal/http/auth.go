package http

import (
	"context"
	"net/http"
	"strings"

	"formcount/internal/core"
	"formcount/internal/log"
)

type identityKey struct{}

// identityFrom returns the caller set by the authenticated middleware.
func identityFrom(ctx context.Context) (core.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(core.Identity)
	return id, ok
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// authenticated requires a valid bearer token and stores the identity it
// carries in the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			UnauthorizedError("Missing or invalid Authorization header").Write(w)
			return
		}
		id, err := s.svc.Tokens.Parse(token)
		if err != nil {
			log.FromContext(r.Context()).WithComponent(log.ComponentAuth).
				DebugContext(r.Context(), "Rejected bearer token", log.FieldError, err)
			UnauthorizedError("Invalid or expired token").Write(w)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		logger := log.FromContext(ctx).With(log.FieldUserID, id.ID)
		next(w, r.WithContext(log.NewContext(ctx, logger)))
	})
}

// admin is authenticated plus the admin role.
func (s *Server) admin(next http.HandlerFunc) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFrom(r.Context())
		if !ok {
			UnauthorizedError("Unauthenticated").Write(w)
			return
		}
		if !id.IsAdmin() {
			ForbiddenError("Requires admin role").Write(w)
			return
		}
		next(w, r)
	})
}
