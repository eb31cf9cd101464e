package repository

import (
	"context"

	"github.com/okonev/orderdesk/internal/domain/model"
)

// UserRepository describes persistence operations with users.
type UserRepository interface {
	Create(ctx context.Context, email, username, passwordHash string, role model.Role) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
