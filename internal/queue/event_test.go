package queue

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, subject, body string
	err               error
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.to, r.subject, r.body = to, subject, body
	return r.err
}

func TestNotificationEventRendering(t *testing.T) {
	ev := NotificationEvent{
		Type:       TypeAuditDueSoon,
		Recipient:  "admin@fleet.example",
		Reference:  "AUD-26-00012",
		VesselName: "MV Horizon",
		DueDate:    "2026-09-15",
	}
	assert.Contains(t, ev.Subject(), "AUD-26-00012")
	assert.Contains(t, ev.Subject(), "2026-09-15")
	assert.Contains(t, ev.Body(), "MV Horizon")

	ev.Type = TypeFindingOverdue
	ev.Description = "Expired fire extinguishers on deck 2"
	assert.Contains(t, ev.Subject(), "overdue")
	assert.Contains(t, ev.Body(), "Expired fire extinguishers")

	ev.Type = "unknown"
	assert.NotEmpty(t, ev.Subject())
	assert.NotEmpty(t, ev.Body())
}

func TestHandleMessageSendsMail(t *testing.T) {
	ev := NotificationEvent{
		Type:      TypeFindingDueSoon,
		Recipient: "creator@fleet.example",
		Reference: "AUD-26-00003",
		DueDate:   "2026-09-08",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	s := &recordingSender{}
	require.NoError(t, handleMessage(body, s))
	assert.Equal(t, "creator@fleet.example", s.to)
	assert.Equal(t, ev.Subject(), s.subject)
	assert.Equal(t, ev.Body(), s.body)
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	s := &recordingSender{}
	assert.Error(t, handleMessage([]byte("{not json"), s))

	noRecipient, _ := json.Marshal(NotificationEvent{Type: TypeAuditDueSoon})
	assert.Error(t, handleMessage(noRecipient, s))
}

func TestHandleMessagePropagatesSendFailure(t *testing.T) {
	ev := NotificationEvent{Type: TypeAuditDueSoon, Recipient: "x@y.z"}
	body, _ := json.Marshal(ev)
	s := &recordingSender{err: errors.New("smtp down")}
	assert.Error(t, handleMessage(body, s))
}
