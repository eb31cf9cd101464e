package usecase

import (
	"context"

	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/domain/repository"
)

// AlertUseCase exposes the paginated alert feed.
type AlertUseCase struct {
	alerts repository.AlertRepository
}

// NewAlertUseCase constructs AlertUseCase.
func NewAlertUseCase(alerts repository.AlertRepository) *AlertUseCase {
	return &AlertUseCase{alerts: alerts}
}

// List returns one time-descending page of the feed. Non-admins only see
// entries on orders they own, and the totals reflect that filtered view, so
// pagination never exposes how many foreign orders exist.
func (u *AlertUseCase) List(ctx context.Context, actor model.Actor, page, perPage int) (*model.AlertPage, error) {
	filter := model.AlertFilter{Page: page, PerPage: perPage}
	if filter.Page <= 0 {
		filter.Page = defaultPage
	}
	if filter.PerPage <= 0 {
		filter.PerPage = defaultPerPage
	}
	if !actor.IsAdmin() {
		filter.OwnerID = actor.ID
	}
	return u.alerts.List(ctx, filter)
}
