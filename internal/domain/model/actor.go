package model

// Role identifies the kind of principal performing an action.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// Actor is the principal behind a request: a human admin or user, or the
// automation sweep acting as the anonymous system principal.
type Actor struct {
	ID       *int64
	Username string
	Role     Role
}

// SystemActor returns the principal used by the automation sweep.
func SystemActor() Actor {
	return Actor{Username: "System", Role: RoleSystem}
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor is the human owner of the given order.
func (a Actor) Owns(order *Order) bool {
	return a.ID != nil && order != nil && *a.ID == order.UserID
}
