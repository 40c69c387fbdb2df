package access

import (
	"strings"

	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleMitra    Role = "mitra"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
	RoleUser     Role = "user"

	// RoleSystem is held only by background processes and is never accepted from a session.
	RoleSystem Role = "system"
)

var sessionRoles = map[Role]struct{}{
	RoleOwner:    {},
	RoleAdmin:    {},
	RoleMitra:    {},
	RoleDriver:   {},
	RoleCustomer: {},
	RoleUser:     {},
}

// NewRole parses a role string coming from SessionIdentity.
func NewRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sessionRoles[r]; !ok {
		return "", errs.NewValidationError("role", "unknown role "+s)
	}
	return r, nil
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsStaff() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Actor is the authenticated principal issuing a command.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role}
}

var SystemActor = Actor{ID: uuid.Nil, Role: RoleSystem}
