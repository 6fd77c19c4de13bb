package services

import (
	"context"
	"fmt"
	"log/slog"

	"formcount/internal/core"
)

// SubmitResult is returned for a stored entry.
type SubmitResult struct {
	Message string `json:"message"`
	EntryID int64  `json:"entryId"`
	Month   string `json:"month"`
	Day     int    `json:"day"`
}

// EntryService validates and stores user submissions.
type EntryService struct {
	store EntryStore
}

func NewEntryService(store EntryStore) *EntryService {
	return &EntryService{store: store}
}

// Submit validates the payload and stores it for the caller. The caller's
// constituency comes from its identity, never from the payload.
func (s *EntryService) Submit(ctx context.Context, user core.Identity, p core.EntryPayload) (SubmitResult, error) {
	entry, err := core.ValidateEntry(p)
	if err != nil {
		return SubmitResult{}, err
	}

	exists, err := s.store.EntryExists(ctx, user.ID, entry.Month, entry.Day)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("check duplicate entry: %w", err)
	}
	if exists {
		return SubmitResult{}, core.ErrDuplicateSubmission
	}

	// The unique constraint catches a concurrent submission that passed the check above.
	id, err := s.store.InsertEntry(ctx, user.ID, user.Constituency, entry)
	if err != nil {
		return SubmitResult{}, err
	}

	slog.InfoContext(ctx, "Entry saved",
		"entry_id", id, "user_id", user.ID, "month", entry.Month, "day", entry.Day)

	return SubmitResult{Message: "Entry saved", EntryID: id, Month: entry.Month, Day: entry.Day}, nil
}

// ListMine returns every entry of the user, newest first.
func (s *EntryService) ListMine(ctx context.Context, userID int64) ([]core.Entry, error) {
	entries, err := s.store.ListEntriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// ListSubmitted returns the (month, day) slots the user already submitted.
func (s *EntryService) ListSubmitted(ctx context.Context, userID int64) ([]core.SubmittedEntry, error) {
	out, err := s.store.ListSubmittedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list submitted entries: %w", err)
	}
	return out, nil
}
