// Package http provides the JSON API server and its handlers.
//
// This file implements request body decoding and the parsing shared by the
// reconciliation and distribution handlers.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"formcount/internal/core"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errMalformedBody rejects bodies that are not a JSON object.
var errMalformedBody = core.NewValidationError("Invalid JSON body")

// decodeJSON reads a JSON object into dst. An empty body decodes as {} so
// missing fields are reported by the field rules instead.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.NewValidationError(fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		}
		return fmt.Errorf("read request body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errMalformedBody
	}
	return nil
}

// SlotRequest is the body of a reconciliation request.
type SlotRequest struct {
	Month core.FlexValue `json:"month"`
	Day   core.FlexValue `json:"day"`
}

// Parse checks presence before the day rule, matching the query form.
func (s SlotRequest) Parse() (string, int, error) {
	month := sanitizeInput(s.Month.Text())
	if month == "" || !s.Day.Truthy() {
		return "", 0, core.ErrMonthDayMissing
	}
	day, err := s.Day.Day()
	if err != nil {
		return "", 0, err
	}
	return month, day, nil
}

// ParseSlotParams parses a month/day pair taken from a path or query string.
func ParseSlotParams(month, day string) (string, int, error) {
	return SlotRequest{Month: core.String(month), Day: core.String(strings.TrimSpace(day))}.Parse()
}

// DistributionRequest is the body of a directly recorded distribution row.
type DistributionRequest struct {
	Constituency core.FlexValue `json:"constituency"`
	Month        core.FlexValue `json:"month"`
	Day          core.FlexValue `json:"day"`
	Form6Count   core.FlexValue `json:"form6_count"`
	Form8Count   core.FlexValue `json:"form8_count"`
	Total        core.FlexValue `json:"total"`
}

// Input converts the request to a core.DistributionInput. Counts default to
// zero when absent; total is optional.
func (d DistributionRequest) Input() (core.DistributionInput, error) {
	month := sanitizeInput(d.Month.Text())
	if month == "" || !d.Constituency.Truthy() || !d.Day.Truthy() {
		return core.DistributionInput{}, core.ErrMissingFields
	}
	constituency, err := d.Constituency.Count()
	if err != nil || constituency == 0 {
		return core.DistributionInput{}, core.NewValidationError("constituency must be a positive number")
	}
	day, err := d.Day.Day()
	if err != nil {
		return core.DistributionInput{}, err
	}

	in := core.DistributionInput{Constituency: constituency, Month: month, Day: day}
	if in.Form6Count, err = optionalCount(d.Form6Count); err != nil {
		return core.DistributionInput{}, err
	}
	if in.Form8Count, err = optionalCount(d.Form8Count); err != nil {
		return core.DistributionInput{}, err
	}
	if d.Total.Present() {
		total, err := d.Total.Count()
		if err != nil {
			return core.DistributionInput{}, err
		}
		in.Total = &total
	}
	return in, nil
}

func optionalCount(v core.FlexValue) (int64, error) {
	if !v.Present() {
		return 0, nil
	}
	return v.Count()
}

// ReportRequest names a report by type and year.
type ReportRequest struct {
	ReportType string `json:"reportType"`
	Year       string `json:"year"`
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
