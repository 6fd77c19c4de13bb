package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "formcount/internal/sheets/google"
	"formcount/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new exporter factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateExporter implements Factory.CreateExporter
func (f *DefaultFactory) CreateExporter(ctx context.Context, config Config) (*ExporterResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsBackend:
		client, err := gsheet.New(ctx, config.GoogleSpreadsheetID, gsheet.Credentials{
			JSON: config.GoogleServiceAccountJSON,
			File: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
		}
		f.logger.InfoContext(ctx, "Report exporter initialized", "backend", config.Type, "spreadsheet_id", config.GoogleSpreadsheetID)
		return &ExporterResult{Exporter: client, Cleanup: func() error { return nil }}, nil
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Report exporter initialized", "backend", config.Type)
		return &ExporterResult{Exporter: memory.New(), Cleanup: func() error { return nil }}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
