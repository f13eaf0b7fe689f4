package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMidnight(t *testing.T) {
	in := time.Date(2026, 3, 14, 23, 59, 58, 0, time.UTC)
	got := Midnight(in)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 8, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, DaysBetween(a, b))
	assert.Equal(t, -7, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
