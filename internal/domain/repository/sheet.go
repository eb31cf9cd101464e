package repository

import (
	"context"

	"github.com/okonev/orderdesk/internal/domain/model"
)

// SheetRepository describes persistence operations with sheets.
type SheetRepository interface {
	Create(ctx context.Context, name string, createdBy int64) (*model.Sheet, error)
	GetByName(ctx context.Context, name string) (*model.Sheet, error)
	List(ctx context.Context) ([]model.Sheet, error)
	Delete(ctx context.Context, id int64) error
}
