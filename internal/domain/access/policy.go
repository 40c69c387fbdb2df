package access

import (
	"fmt"

	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreateBooking     Action = "create_booking"
	ActionSelectSeats       Action = "select_seats"
	ActionProceedToPayment  Action = "proceed_to_payment"
	ActionSubmitPayment     Action = "submit_payment"
	ActionValidatePayment   Action = "validate_payment"
	ActionCancelBooking     Action = "cancel_booking"
	ActionExpireBooking     Action = "expire_booking"
	ActionViewBooking       Action = "view_booking"
	ActionViewValidation    Action = "view_validation"
	ActionQueryAvailability Action = "query_availability"
	ActionScheduleTrip      Action = "schedule_trip"
	ActionViewTrip          Action = "view_trip"
	ActionDownloadTicket    Action = "download_ticket"
)

// Scope says over whose bookings a role may act.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeAny
)

// Policy is the single authority on (role, action) permissions. It is immutable after construction.
type Policy struct {
	matrix map[Action]map[Role]Scope
}

func NewPolicy() *Policy {
	passengerFlow := grant(
		map[Role]Scope{RoleOwner: ScopeAny, RoleAdmin: ScopeAny},
		ScopeOwn, RoleMitra, RoleDriver, RoleCustomer, RoleUser,
	)
	everyone := grant(nil, ScopeAny, RoleOwner, RoleAdmin, RoleMitra, RoleDriver, RoleCustomer, RoleUser)
	staffOnly := grant(nil, ScopeAny, RoleOwner, RoleAdmin)

	return &Policy{matrix: map[Action]map[Role]Scope{
		ActionCreateBooking:     passengerFlow,
		ActionSelectSeats:       passengerFlow,
		ActionProceedToPayment:  passengerFlow,
		ActionSubmitPayment:     passengerFlow,
		ActionCancelBooking:     passengerFlow,
		ActionViewBooking:       passengerFlow,
		ActionViewValidation:    passengerFlow,
		ActionDownloadTicket:    passengerFlow,
		ActionValidatePayment:   staffOnly,
		ActionScheduleTrip:      staffOnly,
		ActionQueryAvailability: everyone,
		ActionViewTrip:          everyone,
		ActionExpireBooking:     {RoleSystem: ScopeAny},
	}}
}

func grant(base map[Role]Scope, scope Scope, roles ...Role) map[Role]Scope {
	m := make(map[Role]Scope, len(base)+len(roles))
	for r, s := range base {
		m[r] = s
	}
	for _, r := range roles {
		m[r] = scope
	}
	return m
}

func (p *Policy) Scope(role Role, action Action) Scope {
	return p.matrix[action][role]
}

func (p *Policy) CanPerform(role Role, action Action) bool {
	return p.Scope(role, action) != ScopeNone
}

// Check is the role-only gate every command runs before loading any state.
func (p *Policy) Check(actor Actor, action Action) error {
	if !p.CanPerform(actor.Role, action) {
		return deny(actor, action)
	}
	return nil
}

// Authorize additionally enforces ownership for roles limited to their own bookings.
func (p *Policy) Authorize(actor Actor, action Action, ownerID uuid.UUID) error {
	switch p.Scope(actor.Role, action) {
	case ScopeAny:
		return nil
	case ScopeOwn:
		if actor.ID != uuid.Nil && actor.ID == ownerID {
			return nil
		}
	}
	return deny(actor, action)
}

func deny(actor Actor, action Action) error {
	return errs.Wrap(errs.ErrUnauthorized, fmt.Sprintf("role %q may not %s", actor.Role, action))
}
