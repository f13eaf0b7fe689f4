package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuditReference(t *testing.T) {
	created := time.Date(2027, 2, 3, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "AUD-27-00042", AuditReference(42, created))

	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "AUD-26-00007", AuditReference(7, early))

	// Ids wider than five digits are not truncated.
	assert.Equal(t, "AUD-26-123456", AuditReference(123456, early))
}

func TestValidAuditStatus(t *testing.T) {
	for _, s := range []string{AuditPlanned, AuditOngoing, AuditCompleted, AuditClosed} {
		assert.True(t, ValidAuditStatus(s))
	}
	assert.False(t, ValidAuditStatus("planned"))
	assert.False(t, ValidAuditStatus(""))
}
