package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexValue holds a JSON scalar that clients send either as a string or as a
// number. The zero value is an absent field.
type FlexValue struct {
	set    bool
	null   bool
	str    string
	num    float64
	isNum  bool
	isText bool
}

// UnmarshalJSON accepts strings, numbers and null; other JSON kinds are kept
// as present but unusable values.
func (v *FlexValue) UnmarshalJSON(data []byte) error {
	*v = FlexValue{set: true}
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		v.null = true
	case len(data) > 0 && data[0] == '"':
		if err := json.Unmarshal(data, &v.str); err != nil {
			return err
		}
		v.isText = true
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		v.num = f
		v.isNum = true
	}
	return nil
}

// MarshalJSON writes the value back in the shape it was received.
func (v FlexValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.isText:
		return json.Marshal(v.str)
	case v.isNum:
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// String returns a string value.
func String(s string) FlexValue {
	return FlexValue{set: true, str: s, isText: true}
}

// Number returns a numeric value.
func Number(f float64) FlexValue {
	return FlexValue{set: true, num: f, isNum: true}
}

// Present reports whether the field was sent with a non-null value.
func (v FlexValue) Present() bool {
	return v.set && !v.null
}

// Truthy reports whether the value is a non-empty string or a non-zero
// number. Booleans, objects and arrays are never truthy.
func (v FlexValue) Truthy() bool {
	switch {
	case v.isText:
		return v.str != ""
	case v.isNum:
		return v.num != 0
	default:
		return false
	}
}

// Text renders the value as a string; numbers use their shortest form.
func (v FlexValue) Text() string {
	switch {
	case v.isText:
		return v.str
	case v.isNum:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return ""
}

// Count coerces the value to a whole, non-negative count.
func (v FlexValue) Count() (int64, error) {
	switch {
	case v.isNum:
		return countFromFloat(v.num)
	case v.isText:
		return ParseCount(v.str)
	}
	return 0, ErrInvalidCounts
}

// Day coerces the value to a reporting day.
func (v FlexValue) Day() (int, error) {
	switch {
	case v.isNum:
		if v.num != DayMid && v.num != DayEnd {
			return 0, ErrInvalidDay
		}
		return int(v.num), nil
	case v.isText:
		return ParseDay(v.str)
	}
	return 0, ErrInvalidDay
}

// EntryPayload is the body of an entry submission.
type EntryPayload struct {
	Month       FlexValue `json:"month"`
	DateOfMonth FlexValue `json:"date_of_month"`
	Form6Count  FlexValue `json:"form6_count"`
	Form8Count  FlexValue `json:"form8_count"`
	PeriodFrom  FlexValue `json:"period_from"`
	PeriodTo    FlexValue `json:"period_to"`
	Remarks     string    `json:"remarks,omitempty"`
}

// ValidEntry is a submission that passed every field rule.
type ValidEntry struct {
	Month      string
	Day        int
	Form6Count int64
	Form8Count int64
	PeriodFrom time.Time
	PeriodTo   time.Time
	Remarks    string
}

var periodLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParsePeriodDate parses a calendar date or timestamp.
func ParsePeriodDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidPeriod
}

// ValidateEntry applies the submission rules in order and reports the first
// one that fails. Counts of zero are valid; a missing count is not.
func ValidateEntry(p EntryPayload) (ValidEntry, error) {
	if !p.Month.Truthy() || !p.DateOfMonth.Truthy() ||
		!p.Form6Count.Present() || !p.Form8Count.Present() ||
		!p.PeriodFrom.Truthy() || !p.PeriodTo.Truthy() {
		return ValidEntry{}, ErrMissingFields
	}

	day, err := p.DateOfMonth.Day()
	if err != nil {
		return ValidEntry{}, err
	}

	f6, err := p.Form6Count.Count()
	if err != nil {
		return ValidEntry{}, err
	}
	f8, err := p.Form8Count.Count()
	if err != nil {
		return ValidEntry{}, err
	}

	from, err := ParsePeriodDate(p.PeriodFrom.Text())
	if err != nil {
		return ValidEntry{}, err
	}
	to, err := ParsePeriodDate(p.PeriodTo.Text())
	if err != nil {
		return ValidEntry{}, err
	}
	if from.After(to) {
		return ValidEntry{}, ErrPeriodOrder
	}

	return ValidEntry{
		Month:      p.Month.Text(),
		Day:        day,
		Form6Count: f6,
		Form8Count: f8,
		PeriodFrom: from,
		PeriodTo:   to,
		Remarks:    strings.TrimSpace(p.Remarks),
	}, nil
}
