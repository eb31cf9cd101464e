// Package policy is the order lifecycle rule table: which status transitions
// are legal for which role, and when the automation sweep should pick an
// order up next. It performs no I/O.
package policy

import (
	"time"

	domainErrors "github.com/okonev/orderdesk/internal/domain/errors"
	"github.com/okonev/orderdesk/internal/domain/model"
)

const (
	orderedDelay      = 10 * 24 * time.Hour
	sentToSellerDelay = 5 * 24 * time.Hour
)

// AdminAllowed enumerates the statuses an admin may set.
var AdminAllowed = []model.OrderStatus{
	model.StatusOrdered,
	model.StatusReviewed,
	model.StatusReviewAwaited,
	model.StatusRefundDelayed,
	model.StatusRefunded,
	model.StatusCorrected,
	model.StatusCancelled,
	model.StatusCommissionCollected,
	model.StatusPaid,
	model.StatusSentToSeller,
	model.StatusOnHold,
	model.StatusSent,
}

// UserAllowed enumerates the statuses a regular user may set.
var UserAllowed = []model.OrderStatus{
	model.StatusReviewed,
	model.StatusCancelled,
	model.StatusOrdered,
	model.StatusRefundDelayed,
}

var roleAllowed = map[model.Role]map[model.OrderStatus]struct{}{
	model.RoleAdmin: toSet(AdminAllowed),
	model.RoleUser:  toSet(UserAllowed),
}

// systemTransitions maps the current status to the status the automation
// sweep advances it to. Statuses absent from the table are not automated.
var systemTransitions = map[model.OrderStatus]model.OrderStatus{
	model.StatusOrdered:      model.StatusReviewAwaited,
	model.StatusSentToSeller: model.StatusRefundDelayed,
}

func toSet(statuses []model.OrderStatus) map[model.OrderStatus]struct{} {
	set := make(map[model.OrderStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// AllowedFor returns the status set the given role may request.
func AllowedFor(role model.Role) []model.OrderStatus {
	switch role {
	case model.RoleAdmin:
		return AdminAllowed
	case model.RoleUser:
		return UserAllowed
	default:
		return nil
	}
}

// SystemTransition returns the automatic follow-up for the given status.
func SystemTransition(current model.OrderStatus) (model.OrderStatus, bool) {
	next, ok := systemTransitions[current]
	return next, ok
}

// NextStatusAt computes when the automation sweep should revisit an order
// that just entered the given status. Nil means no automatic follow-up.
func NextStatusAt(status model.OrderStatus, now time.Time) *time.Time {
	var delay time.Duration
	switch status {
	case model.StatusOrdered:
		delay = orderedDelay
	case model.StatusSentToSeller:
		delay = sentToSellerDelay
	default:
		return nil
	}
	at := now.Add(delay)
	return &at
}

// Decision is the outcome of an accepted transition request.
type Decision struct {
	// NoOp is set when the requested status equals the current one; the
	// request succeeds but no history, alert or broadcast is produced.
	NoOp bool
	// NextStatusAt is the schedule to persist alongside the new status.
	NextStatusAt *time.Time
}

// Decide validates a requested status change against the role tables and
// ownership rules. Resubmitting the current status is an idempotent no-op,
// not an error.
func Decide(actor model.Actor, order *model.Order, requested model.OrderStatus, now time.Time) (Decision, error) {
	if !requested.Valid() {
		return Decision{}, &domainErrors.InvalidTransitionError{
			Role:      actor.Role,
			Requested: string(requested),
			Allowed:   AllowedFor(actor.Role),
		}
	}

	switch actor.Role {
	case model.RoleAdmin, model.RoleUser:
		if _, ok := roleAllowed[actor.Role][requested]; !ok {
			return Decision{}, &domainErrors.InvalidTransitionError{
				Role:      actor.Role,
				Requested: string(requested),
				Allowed:   AllowedFor(actor.Role),
			}
		}
		if actor.Role == model.RoleUser && !actor.Owns(order) {
			return Decision{}, domainErrors.ErrNotOwner
		}
	case model.RoleSystem:
		next, ok := systemTransitions[order.Status]
		if !ok || next != requested {
			return Decision{}, &domainErrors.InvalidTransitionError{
				Role:      actor.Role,
				Requested: string(requested),
			}
		}
	default:
		return Decision{}, domainErrors.ErrNotOwner
	}

	if requested == order.Status {
		return Decision{NoOp: true}, nil
	}

	return Decision{NextStatusAt: NextStatusAt(requested, now)}, nil
}
