package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Reporting days of the bi-monthly cadence.
const (
	DayMid = 15
	DayEnd = 30
)

// Roles carried in identity claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type (
	// Entry is a user's submission for one (month, day) of their constituency.
	Entry struct {
		ID           int64     `json:"id"`
		UserID       int64     `json:"user_id"`
		Constituency int64     `json:"constituency"`
		Month        string    `json:"month"`
		Day          int       `json:"day"`
		Form6Count   int64     `json:"form6_count"`
		Form8Count   int64     `json:"form8_count"`
		PeriodStart  string    `json:"period_start"`
		PeriodEnd    string    `json:"period_end"`
		Remarks      string    `json:"remarks,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// SubmittedEntry is the compact view used to disable already-used slots.
	SubmittedEntry struct {
		ID        int64     `json:"id"`
		Month     string    `json:"month"`
		Day       int       `json:"day"`
		CreatedAt time.Time `json:"created_at"`
	}

	// LedgerRow is the reconciliation-relevant shape shared by entries,
	// receive_entries and distribution_entries.
	LedgerRow struct {
		ID           int64  `json:"id,omitempty"`
		Constituency int64  `json:"constituency"`
		Month        string `json:"month"`
		Day          int    `json:"day"`
		Form6Count   int64  `json:"form6_count"`
		Form8Count   int64  `json:"form8_count"`
		Total        *int64 `json:"total,omitempty"`
	}

	// ReconciledRow identifies one row handled by a reconciliation pass.
	ReconciledRow struct {
		ID           int64  `json:"id,omitempty"`
		Constituency int64  `json:"constituency"`
		Month        string `json:"month"`
		Day          int    `json:"day"`
	}

	// ReconcileResult reports what a pass did; it stays accurate when the pass
	// aborts part way through.
	ReconcileResult struct {
		Message       string          `json:"message"`
		InsertedCount int             `json:"insertedCount"`
		SkippedCount  int             `json:"skippedCount"`
		Inserted      []ReconciledRow `json:"inserted"`
		Skipped       []ReconciledRow `json:"skipped"`
	}

	// DistributionInput records one distribution row directly.
	DistributionInput struct {
		Constituency int64
		Month        string
		Day          int
		Form6Count   int64
		Form8Count   int64
		Total        *int64
	}

	// Identity is the authenticated caller as carried by the bearer token.
	Identity struct {
		ID           int64  `json:"id"`
		Username     string `json:"username"`
		Role         string `json:"role"`
		Constituency int64  `json:"constituency"`
	}

	// User is a stored account.
	User struct {
		Identity
		PasswordHash string
		CreatedAt    time.Time
	}
)

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RowTotal returns the stored total, or the sum of both counts when the row
// has none.
func (r LedgerRow) RowTotal() int64 {
	if r.Total != nil {
		return *r.Total
	}
	return r.Form6Count + r.Form8Count
}

// Key is the reconciliation identity of the row, using its stored month.
func (r LedgerRow) Key() ReconciledRow {
	return ReconciledRow{Constituency: r.Constituency, Month: r.Month, Day: r.Day}
}

// ValidDay reports whether day is one of the reporting days.
func ValidDay(day int) bool {
	return day == DayMid || day == DayEnd
}

// ParseDay coerces a textual day ("15", "30", "15.0") to a reporting day.
func ParseDay(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, ErrInvalidDay
	}
	day := int(f)
	if !ValidDay(day) {
		return 0, ErrInvalidDay
	}
	return day, nil
}

// Validate checks a directly recorded distribution row.
func (in DistributionInput) Validate() error {
	if strings.TrimSpace(in.Month) == "" || in.Constituency == 0 {
		return ErrMissingFields
	}
	if !ValidDay(in.Day) {
		return ErrInvalidDay
	}
	if in.Form6Count < 0 || in.Form8Count < 0 || (in.Total != nil && *in.Total < 0) {
		return ErrInvalidCounts
	}
	return nil
}
