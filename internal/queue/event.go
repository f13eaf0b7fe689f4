// Package queue defines the notification payloads exchanged over the
// message broker and the consumer that turns them into email.
package queue

import "fmt"

// Queue name for reminder notifications. The reminder binary publishes to
// it and the server's consumer drains it.
const NotificationQueueName = "audit.notifications"

// Notification types.
const (
	TypeAuditDueSoon   = "audit_due_soon"
	TypeFindingDueSoon = "finding_due_soon"
	TypeFindingOverdue = "finding_overdue"
)

// NotificationEvent is one reminder to be delivered by email. It carries
// everything the consumer needs to render the message without querying the
// primary database.
type NotificationEvent struct {
	Type        string `json:"type"`
	Recipient   string `json:"recipient"`
	Reference   string `json:"reference"`
	VesselName  string `json:"vessel_name,omitempty"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	GeneratedAt string `json:"generated_at"`
}

// Subject renders the email subject line for the event.
func (e NotificationEvent) Subject() string {
	switch e.Type {
	case TypeAuditDueSoon:
		return fmt.Sprintf("Audit %s due on %s", e.Reference, e.DueDate)
	case TypeFindingDueSoon:
		return fmt.Sprintf("Finding target date approaching (%s)", e.Reference)
	case TypeFindingOverdue:
		return fmt.Sprintf("Finding overdue (%s)", e.Reference)
	}
	return "Audit tracker notification"
}

// Body renders the plain-text email body for the event.
func (e NotificationEvent) Body() string {
	switch e.Type {
	case TypeAuditDueSoon:
		return fmt.Sprintf("Audit %s of vessel %q is due on %s.\r\n\r\nGenerated %s.",
			e.Reference, e.VesselName, e.DueDate, e.GeneratedAt)
	case TypeFindingDueSoon:
		return fmt.Sprintf("A finding under audit %s reaches its target date on %s.\r\n\r\n%s\r\n\r\nGenerated %s.",
			e.Reference, e.DueDate, e.Description, e.GeneratedAt)
	case TypeFindingOverdue:
		return fmt.Sprintf("A finding under audit %s passed its target date (%s) and is still open.\r\n\r\n%s\r\n\r\nGenerated %s.",
			e.Reference, e.DueDate, e.Description, e.GeneratedAt)
	}
	return fmt.Sprintf("Notification %s for %s.", e.Type, e.Reference)
}
