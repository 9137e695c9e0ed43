package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var filterNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func TestParseDateFilterAll(t *testing.T) {
	dr := ParseDateFilter("all", filterNow)
	assert.False(t, dr.Bounded())
	assert.Empty(t, dr.Start)
	assert.Empty(t, dr.End)
}

func TestParseDateFilterNumericWindow(t *testing.T) {
	dr := ParseDateFilter("7", filterNow)
	assert.Equal(t, "2026-08-08 12:00:00", dr.Start)
	assert.Equal(t, "2026-08-15 12:00:00", dr.End)
}

func TestParseDateFilterCustomRange(t *testing.T) {
	dr := ParseDateFilter("2024-01-01,2024-12-31", filterNow)
	assert.Equal(t, "2024-01-01", dr.Start)
	assert.Equal(t, "2024-12-31", dr.End)
}

func TestParseDateFilterDefaultsTo30Days(t *testing.T) {
	for _, token := range []string{"", "soon", "7d"} {
		dr := ParseDateFilter(token, filterNow)
		assert.Equal(t, "2026-07-16 12:00:00", dr.Start, "token %q", token)
		assert.Equal(t, "2026-08-15 12:00:00", dr.End, "token %q", token)
	}
}

func TestParseDateFilterSingleDashDateQuirk(t *testing.T) {
	// A lone ISO date hits the range branch and leaves the end bound empty;
	// downstream queries then match nothing. Deliberately preserved.
	dr := ParseDateFilter("2024-01-01", filterNow)
	assert.True(t, dr.Bounded())
	assert.Equal(t, "2024-01-01", dr.Start)
	assert.Empty(t, dr.End)
}

func TestDateClause(t *testing.T) {
	clause, args := dateClause("fc.created_at", DateRange{Start: "a", End: "b"})
	assert.Equal(t, " AND fc.created_at >= ? AND fc.created_at <= ?", clause)
	assert.Equal(t, []any{"a", "b"}, args)

	clause, args = dateClause("fc.created_at", DateRange{})
	assert.Empty(t, clause)
	assert.Nil(t, args)
}
