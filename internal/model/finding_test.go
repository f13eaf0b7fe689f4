package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsOverdue(t *testing.T) {
	today := day(2026, 6, 15)

	assert.True(t, IsOverdue(day(2026, 6, 14), FindingOpen, today))
	assert.False(t, IsOverdue(day(2026, 6, 15), FindingOpen, today), "due today is not overdue")
	assert.False(t, IsOverdue(day(2026, 6, 16), FindingOpen, today))
	assert.False(t, IsOverdue(day(2020, 1, 1), FindingClosed, today), "closed findings are never overdue")
	assert.True(t, IsOverdue(day(2026, 6, 1), FindingSubmitted, today))
}

func TestIsOverdueComparesCalendarDays(t *testing.T) {
	// A target stored late in the day still counts as that calendar day.
	target := time.Date(2026, 6, 14, 23, 30, 0, 0, time.UTC)
	now := time.Date(2026, 6, 15, 0, 5, 0, 0, time.UTC)
	assert.True(t, IsOverdue(target, FindingOpen, now))
}

func TestEffectiveStatus(t *testing.T) {
	today := day(2026, 6, 15)

	assert.Equal(t, FindingOpen, EffectiveStatus(FindingOpen, day(2026, 7, 1), today))
	assert.Equal(t, FindingOverdue, EffectiveStatus(FindingOpen, day(2026, 6, 1), today))
	assert.Equal(t, FindingOverdue, EffectiveStatus(FindingInProgress, day(2026, 6, 1), today))
	assert.Equal(t, FindingClosed, EffectiveStatus(FindingClosed, day(2026, 6, 1), today), "closed is kept even past the target")
}

func TestReopenStatus(t *testing.T) {
	today := day(2026, 6, 15)

	assert.Equal(t, FindingOpen, ReopenStatus(day(2026, 6, 15), today))
	assert.Equal(t, FindingOpen, ReopenStatus(day(2026, 7, 1), today))
	assert.Equal(t, FindingOverdue, ReopenStatus(day(2026, 6, 1), today))
}

func TestValidFindingStatus(t *testing.T) {
	for _, s := range []string{FindingOpen, FindingInProgress, FindingSubmitted, FindingClosed, FindingOverdue} {
		assert.True(t, ValidFindingStatus(s))
	}
	assert.False(t, ValidFindingStatus("open"))
	assert.False(t, ValidFindingStatus(""))
}

func TestValidFindingCategory(t *testing.T) {
	for _, s := range []string{CategoryMajor, CategoryMinor, CategoryObservation} {
		assert.True(t, ValidFindingCategory(s))
	}
	assert.False(t, ValidFindingCategory("major"))
}
