package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleViewer      Role = "viewer"
	RoleContributor Role = "contributor"
	RoleApprover    Role = "approver"
	RoleAdmin       Role = "admin"
)

type Permission string

const (
	PermRead    Permission = "read"
	PermCreate  Permission = "create"
	PermUpdate  Permission = "update"
	PermApprove Permission = "approve"
	PermExport  Permission = "export"
)

var rolePermissions = map[Role][]Permission{
	RoleViewer:      {PermRead},
	RoleContributor: {PermRead, PermCreate, PermUpdate},
	RoleApprover:    {PermRead, PermCreate, PermUpdate, PermApprove},
	RoleAdmin:       {PermRead, PermCreate, PermUpdate, PermApprove, PermExport},
}

// Can reports whether the role grants p. Unknown roles grant nothing.
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Permissions lists what the role grants, weakest first.
func (r Role) Permissions() []Permission {
	return append([]Permission(nil), rolePermissions[r]...)
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := rolePermissions[r]
	return r, ok
}

type User struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
