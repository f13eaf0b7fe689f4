package model

import "time"

// Vessel statuses accepted by the API.
const (
	VesselActive   = "Active"
	VesselInactive = "Inactive"
)

// Vessel represents a ship that undergoes audits. Vessels are referenced
// by audits and cannot be deleted while any audit points at them. This
// struct corresponds to a row in the `vessels` table.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – human-friendly vessel name, unique.
//	Code         – short internal code, unique.
//	Registration – official registration number.
//	Status       – Active or Inactive.
//	CreatedAt    – timestamp when the row was created.
//	UpdatedAt    – timestamp of last update.
type Vessel struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Registration string    `json:"registration_number"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
