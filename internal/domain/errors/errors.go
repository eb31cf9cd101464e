package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okonev/orderdesk/internal/domain/model"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrNotOwner           = errors.New("not authorized for this order")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrVersionConflict    = errors.New("order was modified concurrently")
)

// InvalidTransitionError rejects a status an actor's role may not set. The
// message enumerates the allowed set for caller guidance.
type InvalidTransitionError struct {
	Role      model.Role
	Requested string
	Allowed   []model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("%s cannot set status to %q, allowed: %s", e.Role, e.Requested, strings.Join(allowed, ", "))
}

// Is makes the typed error match the ErrInvalidTransition sentinel.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
