package repository

import (
	"context"
	"time"

	"github.com/okonev/orderdesk/internal/domain/model"
)

// TransitionRecord carries everything that must be written atomically when an
// order changes status: the new status and schedule on the order row, one
// status history entry and one alert feed entry. Order.Version guards against
// concurrent writers.
type TransitionRecord struct {
	Order          *model.Order
	PreviousStatus model.OrderStatus
	NewStatus      model.OrderStatus
	NextStatusAt   *time.Time
	Actor          model.Actor
	Action         model.AlertAction
	ChangedAt      time.Time
	Patch          model.OrderPatch
}

// OrderRepository describes persistence operations with orders and their
// append-only histories.
type OrderRepository interface {
	// Create inserts the order together with its CREATE_ORDER alert and
	// optional initial comment in one transaction.
	Create(ctx context.Context, draft model.OrderDraft, nextStatusAt time.Time) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// Detail resolves the order with owner, sheet and both histories,
	// histories newest first.
	Detail(ctx context.Context, id int64) (*model.OrderDetail, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.OrderListed, int64, error)
	StatusCounts(ctx context.Context, ownerID *int64) ([]model.StatusCount, error)
	// ApplyTransition performs the atomic status change. It returns
	// ErrVersionConflict when the order row moved past record.Order.Version.
	ApplyTransition(ctx context.Context, record TransitionRecord) (*model.StatusChange, error)
	// UpdatePayload persists patch fields without touching the lifecycle.
	UpdatePayload(ctx context.Context, orderID int64, patch model.OrderPatch) error
	// ClearSchedule removes a stale automation flag without emitting history.
	ClearSchedule(ctx context.Context, orderID int64) error
	// Due returns orders whose scheduled auto-transition time has elapsed.
	Due(ctx context.Context, now time.Time, limit int) ([]model.Order, error)
	AddComment(ctx context.Context, orderID int64, comment string, actor model.Actor, at time.Time) (*model.Comment, error)
	Delete(ctx context.Context, orderID int64) error
}
