package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/okonev/orderdesk/internal/domain/errors"
	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/domain/repository"
)

// SheetUseCase manages the named sheets orders may be grouped under.
type SheetUseCase struct {
	sheets repository.SheetRepository
}

// NewSheetUseCase constructs SheetUseCase.
func NewSheetUseCase(sheets repository.SheetRepository) *SheetUseCase {
	return &SheetUseCase{sheets: sheets}
}

// Create registers a sheet owned by the acting user.
func (u *SheetUseCase) Create(ctx context.Context, actor model.Actor, name string) (*model.Sheet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: sheet name is required", domainErrors.ErrValidation)
	}
	if actor.ID == nil {
		return nil, domainErrors.ErrForbidden
	}
	return u.sheets.Create(ctx, name, *actor.ID)
}

// List returns every sheet.
func (u *SheetUseCase) List(ctx context.Context) ([]model.Sheet, error) {
	return u.sheets.List(ctx)
}

// Delete removes a sheet. Admin only.
func (u *SheetUseCase) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domainErrors.ErrForbidden
	}
	return u.sheets.Delete(ctx, id)
}
