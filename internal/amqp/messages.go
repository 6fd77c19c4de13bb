package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"formcount/internal/core"
)

// ReconcileRequest asks a worker to run one reconciliation pass. The worker
// re-reads the source rows, so the message only names the pass.
type ReconcileRequest struct {
	JobID       string    `json:"job_id"`
	Flow        core.Flow `json:"flow"`
	Month       string    `json:"month"`
	Day         int       `json:"day"`
	RequestedBy int64     `json:"requested_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewReconcileRequest creates a request with a fresh job id.
func NewReconcileRequest(flow core.Flow, month string, day int, requestedBy int64) *ReconcileRequest {
	return &ReconcileRequest{
		JobID:       uuid.NewString(),
		Flow:        flow,
		Month:       month,
		Day:         day,
		RequestedBy: requestedBy,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReconcileRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReconcileRequestFromJSON decodes a message and checks its flow.
func ReconcileRequestFromJSON(data []byte) (*ReconcileRequest, error) {
	var msg ReconcileRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := core.ParseFlow(string(msg.Flow)); err != nil {
		return nil, fmt.Errorf("reconcile request %s: %w", msg.JobID, err)
	}
	return &msg, nil
}
