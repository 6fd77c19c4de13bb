package http

import (
	"context"
	"net/http"
	"time"

	"formcount/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]bool{"ok": true}).Write(w)
}

// handleReady reports whether the database answers within two seconds.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.svc.Ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ServiceUnavailableError("not ready").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]bool{"ready": true}).Write(w)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentAuth, log.OpLogin)
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), sanitizeInput(req.Username), req.Password)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentAuth, log.OpLogin)
		return
	}

	log.FromContext(r.Context()).WithComponent(log.ComponentAuth).InfoContext(r.Context(), "User logged in",
		log.NewFields().WithUser(res.User.ID, res.User.Username, res.User.Constituency).ToSlice()...)
	NewJSONResponse().Body(res).Write(w)
}
