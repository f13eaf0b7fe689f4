package model

import "time"

// CompanySettings is the singleton organization profile row in the
// `company_settings` table. The repository creates it on first read.
type CompanySettings struct {
	ID          uint64    `json:"id"`
	CompanyName string    `json:"company_name"`
	Address     string    `json:"address,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	LogoPath    string    `json:"logo_path,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
