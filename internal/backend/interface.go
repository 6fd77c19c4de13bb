package backend

import (
	"context"

	"formcount/internal/sheets"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// ExporterResult contains the exporter and an optional cleanup function.
type ExporterResult struct {
	Exporter sheets.ReportExporter
	Cleanup  CleanupFunc
}

// Factory creates report exporters based on configuration.
type Factory interface {
	CreateExporter(ctx context.Context, config Config) (*ExporterResult, error)
}

// Config holds configuration for exporter creation.
type Config struct {
	Type BackendType

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

// BackendType names a report export target.
type BackendType string

const (
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
