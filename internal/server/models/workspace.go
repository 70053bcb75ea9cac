package models

import "time"

// Workspace is the tenant record. Slug is globally unique and derived
// deterministically from Name at creation time.
type Workspace struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership roles.
const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// WorkspaceMember links a user to a workspace with a role. The first
// registrant of a workspace becomes its owner.
type WorkspaceMember struct {
	ID          string
	WorkspaceID string
	UserID      string
	Role        string
	CreatedAt   time.Time
}
