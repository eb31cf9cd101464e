package auth

import (
	"time"

	"github.com/okonev/orderdesk/internal/domain/model"
)

// Strategy issues and verifies bearer tokens for acting principals.
type Strategy interface {
	IssueToken(user *model.User) (string, error)
	ParseToken(token string) (model.Actor, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
