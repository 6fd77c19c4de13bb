package http

import (
	"errors"
	"net/http"

	"formcount/internal/amqp"
	"formcount/internal/core"
	"formcount/internal/log"
	"formcount/internal/services"
)

// handlePendingReceive lists entries not yet copied into receive_entries.
func (s *Server) handlePendingReceive(w http.ResponseWriter, r *http.Request) {
	month, day, err := ParseSlotParams(r.PathValue("month"), r.PathValue("day"))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentReconcile, log.OpList)
		return
	}
	rows, err := s.svc.Receive.Pending(r.Context(), day, month)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentReconcile, log.OpList)
		return
	}
	NewJSONResponse().Body(rows).Write(w)
}

// handlePendingDistribution lists received rows without a distribution row,
// narrowed to one slot when month and day are given.
func (s *Server) handlePendingDistribution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		rows []core.LedgerRow
		err  error
	)
	if q.Get("month") == "" && q.Get("day") == "" {
		rows, err = s.svc.Distribution.PendingAll(r.Context())
	} else {
		var (
			month string
			day   int
		)
		month, day, err = ParseSlotParams(q.Get("month"), q.Get("day"))
		if err == nil {
			rows, err = s.svc.Distribution.Pending(r.Context(), day, month)
		}
	}
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentReconcile, log.OpList)
		return
	}
	NewJSONResponse().Body(rows).Write(w)
}

// handleReconcile runs one pass synchronously. A pass aborted by a storage
// error answers 500 with the partial result so callers see what was copied.
func (s *Server) handleReconcile(rec *services.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SlotRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, http.StatusBadRequest, log.ComponentReconcile, log.OpReconcile)
			return
		}
		month, day, err := req.Parse()
		if err != nil {
			writeError(w, r, err, http.StatusBadRequest, log.ComponentReconcile, log.OpReconcile)
			return
		}

		res, err := rec.Reconcile(r.Context(), day, month)
		if err != nil {
			if res.Message == "" {
				writeError(w, r, err, http.StatusBadRequest, log.ComponentReconcile, log.OpReconcile)
				return
			}
			log.LogError(r.Context(), "Reconciliation aborted", err, log.ComponentReconcile, log.OpReconcile,
				log.NewFields().WithSlot(month, day).WithReconcile(string(rec.Flow()), res.InsertedCount, res.SkippedCount))
			NewJSONResponse().Status(http.StatusInternalServerError).Body(struct {
				core.ReconcileResult
				Error string `json:"error"`
			}{res, "Server error"}).Write(w)
			return
		}

		log.FromContext(r.Context()).WithComponent(log.ComponentReconcile).InfoContext(r.Context(), "Reconciliation completed",
			log.NewFields().WithSlot(month, day).WithReconcile(string(rec.Flow()), res.InsertedCount, res.SkippedCount).ToSlice()...)
		NewJSONResponse().Body(res).Write(w)
	}
}

type jobAccepted struct {
	Message string    `json:"message"`
	JobID   string    `json:"jobId"`
	Flow    core.Flow `json:"flow"`
	Month   string    `json:"month"`
	Day     int       `json:"day"`
}

// handleEnqueueReconcile queues a pass for the reconcile worker and answers
// 202 with the job id.
func (s *Server) handleEnqueueReconcile(rec *services.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SlotRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, http.StatusBadRequest, log.ComponentAMQP, log.OpEnqueue)
			return
		}
		month, day, err := req.Parse()
		if err != nil {
			writeError(w, r, err, http.StatusBadRequest, log.ComponentAMQP, log.OpEnqueue)
			return
		}
		if s.svc.Jobs == nil {
			ServiceUnavailableError("Background reconciliation is not configured").Write(w)
			return
		}

		user, _ := identityFrom(r.Context())
		msg := amqp.NewReconcileRequest(rec.Flow(), month, day, user.ID)
		if err := s.svc.Jobs.PublishReconcileRequest(r.Context(), msg); err != nil {
			if errors.Is(err, amqp.ErrCircuitOpen) {
				ServiceUnavailableError("Background reconciliation is temporarily unavailable").Write(w)
				return
			}
			writeError(w, r, err, http.StatusBadRequest, log.ComponentAMQP, log.OpEnqueue)
			return
		}
		s.svc.Metrics.JobPublished(string(rec.Flow()))

		NewJSONResponse().Status(http.StatusAccepted).Body(jobAccepted{
			Message: "Reconciliation queued",
			JobID:   msg.JobID,
			Flow:    rec.Flow(),
			Month:   month,
			Day:     day,
		}).Write(w)
	}
}

type recordedDistribution struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (s *Server) handleRecordDistribution(w http.ResponseWriter, r *http.Request) {
	var req DistributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, http.StatusConflict, log.ComponentReconcile, log.OpCreate)
		return
	}
	in, err := req.Input()
	if err != nil {
		writeError(w, r, err, http.StatusConflict, log.ComponentReconcile, log.OpCreate)
		return
	}
	id, err := s.svc.Distributions.Record(r.Context(), in)
	if err != nil {
		writeError(w, r, err, http.StatusConflict, log.ComponentReconcile, log.OpCreate)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(recordedDistribution{
		Message: "Distribution entry saved",
		ID:      id,
	}).Write(w)
}
