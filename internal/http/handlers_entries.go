package http

import (
	"net/http"

	"formcount/internal/core"
	"formcount/internal/log"
)

func (s *Server) handleMyEntries(w http.ResponseWriter, r *http.Request) {
	user, _ := identityFrom(r.Context())
	entries, err := s.svc.Entries.ListMine(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentEntries, log.OpList)
		return
	}
	NewJSONResponse().Body(entries).Write(w)
}

// handleSubmittedEntries lists the slots the caller already used so clients
// can disable them.
func (s *Server) handleSubmittedEntries(w http.ResponseWriter, r *http.Request) {
	user, _ := identityFrom(r.Context())
	entries, err := s.svc.Entries.ListSubmitted(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentEntries, log.OpList)
		return
	}
	NewJSONResponse().Body(entries).Write(w)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := identityFrom(r.Context())

	var payload core.EntryPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentEntries, log.OpCreate)
		return
	}
	payload.Remarks = sanitizeInput(payload.Remarks)

	res, err := s.svc.Entries.Submit(r.Context(), user, payload)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentEntries, log.OpCreate)
		return
	}
	NewJSONResponse().Body(res).Write(w)
}
