package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"formcount/internal/core"
)

func TestParseSlotParams(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		day       string
		wantMonth string
		wantDay   int
		wantErr   error
	}{
		{"iso month", "2025-06", "15", "2025-06", 15, nil},
		{"named month", " June ", "30", "June", 30, nil},
		{"decimal day", "06", "30.0", "06", 30, nil},
		{"missing month", "", "15", "", 0, core.ErrMonthDayMissing},
		{"missing day", "June", "", "", 0, core.ErrMonthDayMissing},
		{"bad day", "June", "20", "", 0, core.ErrInvalidDay},
		{"non-numeric day", "June", "fifteen", "", 0, core.ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, day, err := ParseSlotParams(tt.month, tt.day)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if month != tt.wantMonth || day != tt.wantDay {
				t.Errorf("got (%q, %d), want (%q, %d)", month, day, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestSlotRequestAcceptsNumbers(t *testing.T) {
	var req SlotRequest
	if err := json.Unmarshal([]byte(`{"month": 6, "day": 15}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	month, day, err := req.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if month != "6" || day != 15 {
		t.Errorf("got (%q, %d)", month, day)
	}

	req = SlotRequest{}
	if err := json.Unmarshal([]byte(`{"month": "June", "day": 0}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, _, err := req.Parse(); !errors.Is(err, core.ErrMonthDayMissing) {
		t.Errorf("day 0 should be missing, got %v", err)
	}
}

func TestDistributionRequestInput(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   error
		wantTotal *int64
	}{
		{"derived total", `{"constituency": 7, "month": "2025-06", "day": "15", "form6_count": 2, "form8_count": "3"}`, nil, nil},
		{"explicit total", `{"constituency": "7", "month": "2025-06", "day": 30, "form6_count": 2, "form8_count": 3, "total": 9}`, nil, ptr(9)},
		{"missing constituency", `{"month": "2025-06", "day": 15}`, core.ErrMissingFields, nil},
		{"bad day", `{"constituency": 7, "month": "2025-06", "day": 16}`, core.ErrInvalidDay, nil},
		{"negative count", `{"constituency": 7, "month": "2025-06", "day": 15, "form6_count": -1}`, core.ErrInvalidCounts, nil},
		{"fractional constituency", `{"constituency": 7.5, "month": "2025-06", "day": 15}`, core.ErrValidation, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req DistributionRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			in, err := req.Input()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.Constituency != 7 || in.Month != "2025-06" {
				t.Errorf("unexpected input %+v", in)
			}
			if (tt.wantTotal == nil) != (in.Total == nil) || (tt.wantTotal != nil && *tt.wantTotal != *in.Total) {
				t.Errorf("Total = %v, want %v", in.Total, tt.wantTotal)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) (SlotRequest, error) {
		var dst SlotRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := decodeJSON(httptest.NewRecorder(), r, &dst)
		return dst, err
	}

	if _, err := decode(""); err != nil {
		t.Errorf("empty body should decode, got %v", err)
	}
	if _, err := decode("{not json"); !errors.Is(err, errMalformedBody) {
		t.Errorf("malformed body err = %v", err)
	}
	if _, err := decode(`{"month": "` + strings.Repeat("x", maxBodyBytes) + `"}`); !errors.Is(err, core.ErrValidation) {
		t.Errorf("oversized body err = %v", err)
	}
	got, err := decode(`{"month": "June", "day": "15"}`)
	if err != nil || got.Month.Text() != "June" {
		t.Errorf("decode = %+v, %v", got, err)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Ju\x00ne\x07 "); got != "June" {
		t.Errorf("sanitizeInput = %q", got)
	}
}

func ptr(v int64) *int64 { return &v }
