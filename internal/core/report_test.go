package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReportKind(t *testing.T) {
	k, err := ParseReportKind("receive")
	assert.NoError(t, err)
	assert.Equal(t, ReportReceive, k)
	assert.Equal(t, FlowReceive, k.Flow())

	k, err = ParseReportKind("Distribution")
	assert.NoError(t, err)
	assert.Equal(t, FlowDistribution, k.Flow())

	_, err = ParseReportKind("Other")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseYear(t *testing.T) {
	y, err := ParseYear(" 2025 ")
	assert.NoError(t, err)
	assert.Equal(t, "2025", y)

	for _, in := range []string{"", "25", "20255", "20a5", "2025%"} {
		_, err := ParseYear(in)
		assert.ErrorIs(t, err, ErrInvalidYear, in)
	}
}

func TestMonthLabel(t *testing.T) {
	cases := []struct {
		raw   string
		idx   int
		label string
	}{
		{"2025-06", 6, "June 2025"},
		{"2024-12", 12, "December 2024"},
		{"2025-13", 0, "2025-13"},
		{"June", 0, "June"},
	}
	for _, tc := range cases {
		idx, label := MonthLabel(tc.raw)
		assert.Equal(t, tc.idx, idx, tc.raw)
		assert.Equal(t, tc.label, label, tc.raw)
	}
}

func TestFlowTables(t *testing.T) {
	assert.Equal(t, "entries", FlowReceive.SourceTable())
	assert.Equal(t, "receive_entries", FlowReceive.TargetTable())
	assert.Equal(t, "receive_entries", FlowDistribution.SourceTable())
	assert.Equal(t, "distribution_entries", FlowDistribution.TargetTable())

	_, err := ParseFlow("bogus")
	assert.ErrorIs(t, err, ErrValidation)
}
