package core

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MonthKind tags the shape a raw month value was written in.
type MonthKind int

const (
	MonthEmpty MonthKind = iota
	MonthISO
	MonthNumeric
	MonthNamed
)

var (
	isoMonthPattern     = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	numericMonthPattern = regexp.MustCompile(`^\d{1,2}$`)
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthToken is a parsed month value. Stored rows carry month strings in
// three historical shapes ("2025-06", "06"/"6", "June"); the token keeps the
// raw text so lookups can still match whatever shape was used at write time.
type MonthToken struct {
	Raw   string
	Kind  MonthKind
	Year  int    // ISO only
	Month int    // ISO and numeric, may be out of 1..12
	MM    string // two-digit month for ISO and numeric
}

// ParseMonth classifies a raw month value. No day-vs-month disambiguation is
// attempted: "15" is the (invalid) fifteenth month.
func ParseMonth(raw string) MonthToken {
	if raw == "" {
		return MonthToken{Kind: MonthEmpty}
	}
	if m := isoMonthPattern.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return MonthToken{Raw: raw, Kind: MonthISO, Year: year, Month: month, MM: m[2]}
	}
	if numericMonthPattern.MatchString(raw) {
		month, _ := strconv.Atoi(raw)
		mm := raw
		if len(mm) == 1 {
			mm = "0" + mm
		}
		return MonthToken{Raw: raw, Kind: MonthNumeric, Month: month, MM: mm}
	}
	return MonthToken{Raw: raw, Kind: MonthNamed}
}

// MonthVariants returns every textual form considered equal to raw, raw first.
// An empty input yields no variants.
func MonthVariants(raw string) []string {
	return ParseMonth(raw).Variants()
}

// Variants lists the lookup forms of the token without duplicates.
func (t MonthToken) Variants() []string {
	var out []string
	add := func(v string) {
		for _, existing := range out {
			if existing == v {
				return
			}
		}
		out = append(out, v)
	}

	switch t.Kind {
	case MonthEmpty:
		return nil
	case MonthISO, MonthNumeric:
		add(t.Raw)
		add(t.MM)
		add(strconv.Itoa(t.Month))
		if name, ok := MonthName(t.Month); ok {
			add(name)
		}
	default:
		add(t.Raw)
		add(titleCase(t.Raw))
	}
	return out
}

// Canonical returns the preferred stored form of the token: "YYYY-MM" for ISO
// input, "MM" for numeric input and the English month name for names that
// spell a known month.
func (t MonthToken) Canonical() string {
	switch t.Kind {
	case MonthISO:
		return t.Raw
	case MonthNumeric:
		return t.MM
	case MonthNamed:
		for _, name := range monthNames {
			if strings.EqualFold(name, t.Raw) {
				return name
			}
		}
	}
	return t.Raw
}

// MonthName maps 1..12 to the English month name.
func MonthName(month int) (string, bool) {
	if month < 1 || month > 12 {
		return "", false
	}
	return monthNames[month-1], true
}

// titleCase upper-cases the first rune and lower-cases the rest.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	head := s[:size]
	if r != utf8.RuneError {
		head = string(unicode.ToUpper(r))
	}
	return head + strings.ToLower(s[size:])
}
