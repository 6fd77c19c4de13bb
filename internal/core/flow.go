package core

import "fmt"

// Flow names one copy-forward reconciliation between two tables.
type Flow string

const (
	// FlowReceive acknowledges submitted entries into receive_entries.
	FlowReceive Flow = "receive"
	// FlowDistribution moves received rows into distribution_entries.
	FlowDistribution Flow = "distribution"
)

// ParseFlow validates a flow name.
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case FlowReceive, FlowDistribution:
		return Flow(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFlow, s)
}

// SourceTable is the table rows are read from.
func (f Flow) SourceTable() string {
	if f == FlowDistribution {
		return "receive_entries"
	}
	return "entries"
}

// TargetTable is the table rows are copied into.
func (f Flow) TargetTable() string {
	if f == FlowDistribution {
		return "distribution_entries"
	}
	return "receive_entries"
}

// CompletionMessage is reported after a successful pass.
func (f Flow) CompletionMessage() string {
	if f == FlowDistribution {
		return "Distribution entries sync completed"
	}
	return "Receive entries sync completed"
}

// ReportKind is the report projected from the flow's target table.
func (f Flow) ReportKind() ReportKind {
	if f == FlowDistribution {
		return ReportDistribution
	}
	return ReportReceive
}
