package model

import "time"

// Role names seeded by the migrations. The `role` JWT claim carries exactly
// one of these values; it is the only role field in the system.
const (
	RoleAdmin   = "Admin"
	RoleEncoder = "Encoder"
	RoleViewer  = "Viewer"
	RoleAuditor = "Auditor"
)

// User represents an application user record as stored in the `users`
// table. Users follow the soft-delete convention and additionally carry an
// is_active flag that blocks login without deleting the account.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name.
//	Email        – unique email address, used for login.
//	PasswordHash – bcrypt hashed password. Never serialized.
//	RoleID       – foreign key into the roles table.
//	RoleName     – resolved role name, joined in by the repository.
//	IsActive     – whether the account may log in.
type User struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	RoleID       uint64     `json:"role_id"`
	RoleName     string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	DeletedBy    *uint64    `json:"deleted_by,omitempty"`
}

// Role is a row in the `roles` table.
type Role struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is a row in the `pages` table: a named area of the application that
// permissions attach to (vessels, audits, findings, users, settings...).
type Page struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Permission is a row in the `permissions` table: an action name such as
// view, create, update or delete.
type Permission struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RolePermission grants a (page, permission) pair to a role. Rows live in
// the `role_permissions` table. The full set for a role is replaced
// atomically when the matrix is administered.
type RolePermission struct {
	RoleID       uint64 `json:"role_id"`
	PageID       uint64 `json:"page_id"`
	PermissionID uint64 `json:"permission_id"`
}

// PageGrant is the resolved form of a role's grant used by the
// authorization gate: page name plus permission name.
type PageGrant struct {
	Page       string `json:"page"`
	Permission string `json:"permission"`
}
