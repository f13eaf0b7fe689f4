package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationDefaults(t *testing.T) {
	pg := PaginationParams("", "")
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 10, pg.Limit)
	assert.Equal(t, 0, pg.Offset)
}

func TestPaginationClamping(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"zero page floors to one", "0", "10", 1, 10},
		{"negative page floors to one", "-3", "10", 1, 10},
		{"limit capped at max", "1", "1000", 1, 100},
		{"zero limit falls back to default", "1", "0", 1, 10},
		{"garbage falls back to defaults", "abc", "xyz", 1, 10},
		{"normal values pass through", "3", "25", 3, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pg := PaginationParams(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, pg.Page)
			assert.Equal(t, tc.wantLimit, pg.Limit)
			assert.Equal(t, (tc.wantPage-1)*tc.wantLimit, pg.Offset)
		})
	}
}
