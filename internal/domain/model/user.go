package model

import "time"

// User represents a registered member of the operations team.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Actor converts the user into an acting principal.
func (u *User) Actor() Actor {
	id := u.ID
	return Actor{ID: &id, Username: u.Username, Role: u.Role}
}

// UserSummary is the public slice of a user attached to orders and alerts.
type UserSummary struct {
	ID       int64
	Email    string
	Username string
}
