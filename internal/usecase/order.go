package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/okonev/orderdesk/internal/domain/errors"
	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/domain/policy"
	"github.com/okonev/orderdesk/internal/domain/repository"
)

// transitionRetries bounds how often a status change is replayed after losing
// a version race; each retry re-reads the order and re-runs the policy.
const transitionRetries = 3

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// Screenshot is an uploaded proof image.
type Screenshot struct {
	Data        []byte
	ContentType string
}

// ScreenshotStore stores proof images and hands back opaque public URLs.
type ScreenshotStore interface {
	Upload(ctx context.Context, kind string, shot Screenshot) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

// CreateOrderInput carries a validated order submission.
type CreateOrderInput struct {
	AmazonOrderNo string
	OrderName     string
	BuyerName     string
	BuyerPaypal   string
	Comment       string
	SheetName     string
	Commission    *float64
	OrderSS       *Screenshot
	ProductSS     *Screenshot
}

// OrderUseCase drives the order lifecycle: creation, policy-checked status
// transitions, histories and deletion.
type OrderUseCase struct {
	orders   repository.OrderRepository
	sheets   repository.SheetRepository
	notifier Notifier
	store    ScreenshotStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, sheets repository.SheetRepository, notifier Notifier, store ScreenshotStore, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		sheets:   sheets,
		notifier: notifier,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Create registers a new order. Status is forced to ORDERED and the first
// automatic transition is scheduled. Emits a CREATE_ORDER alert and a
// newOrder broadcast.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Actor, input CreateOrderInput) (*model.Order, error) {
	if actor.ID == nil {
		return nil, domainErrors.ErrForbidden
	}
	if input.OrderSS == nil || input.ProductSS == nil {
		return nil, fmt.Errorf("%w: order and product screenshots are required", domainErrors.ErrValidation)
	}

	var sheetID *int64
	if input.SheetName != "" {
		sheet, err := u.sheets.GetByName(ctx, input.SheetName)
		switch {
		case err == nil:
			sheetID = &sheet.ID
		case errors.Is(err, domainErrors.ErrNotFound):
			// unknown sheet names are tolerated, the order is simply unattached
		default:
			return nil, err
		}
	}

	orderURL, err := u.store.Upload(ctx, "screenshots/order", *input.OrderSS)
	if err != nil {
		return nil, fmt.Errorf("upload order screenshot: %w", err)
	}
	productURL, err := u.store.Upload(ctx, "screenshots/amazon", *input.ProductSS)
	if err != nil {
		return nil, fmt.Errorf("upload product screenshot: %w", err)
	}

	now := u.now()
	nextStatusAt := policy.NextStatusAt(model.StatusOrdered, now)

	order, err := u.orders.Create(ctx, model.OrderDraft{
		UserID:        *actor.ID,
		SheetID:       sheetID,
		AmazonOrderNo: input.AmazonOrderNo,
		OrderName:     input.OrderName,
		BuyerName:     input.BuyerName,
		BuyerPaypal:   input.BuyerPaypal,
		OrderSS:       orderURL,
		ProductSS:     productURL,
		Commission:    input.Commission,
		Comment:       strings.TrimSpace(input.Comment),
	}, *nextStatusAt)
	if err != nil {
		return nil, err
	}

	u.notifier.Broadcast(EventNewOrder, NewOrderEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		OrderName: order.OrderName,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	})

	return order, nil
}

// ChangeStatus applies a human-initiated status change. The requested token
// is canonicalized, checked against the actor's role table, and on success
// the transition's side effects are written atomically before the broadcast.
// Resubmitting the current status succeeds without side effects.
func (u *OrderUseCase) ChangeStatus(ctx context.Context, actor model.Actor, orderID int64, rawStatus string, patch model.OrderPatch) (*model.Order, error) {
	if rawStatus == "" {
		return nil, fmt.Errorf("%w: status is required", domainErrors.ErrValidation)
	}
	requested, ok := model.ParseStatus(rawStatus)
	if !ok {
		return nil, &domainErrors.InvalidTransitionError{
			Role:      actor.Role,
			Requested: rawStatus,
			Allowed:   policy.AllowedFor(actor.Role),
		}
	}
	if patch.RefundSS != nil && !actor.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}

	for attempt := 0; attempt < transitionRetries; attempt++ {
		order, err := u.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		now := u.now()
		decision, err := policy.Decide(actor, order, requested, now)
		if err != nil {
			return nil, err
		}

		if decision.NoOp {
			if !patch.Empty() {
				if err := u.orders.UpdatePayload(ctx, order.ID, patch); err != nil {
					return nil, err
				}
			}
			return order, nil
		}

		change, err := u.orders.ApplyTransition(ctx, repository.TransitionRecord{
			Order:          order,
			PreviousStatus: order.Status,
			NewStatus:      requested,
			NextStatusAt:   decision.NextStatusAt,
			Actor:          actor,
			Action:         model.ActionStatusChanged,
			ChangedAt:      now,
			Patch:          patch,
		})
		if errors.Is(err, domainErrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		u.broadcastChange(order.ID, change, actor)

		order.Status = requested
		order.NextStatusAt = decision.NextStatusAt
		order.Version++
		return order, nil
	}

	return nil, domainErrors.ErrVersionConflict
}

// AutoAdvance moves one due order through its system transition. Orders that
// carry a stale schedule with no mapped follow-up get the flag cleared
// silently. Losing a version race re-reads the order, so a concurrent human
// edit is observed before the automation decides again.
func (u *OrderUseCase) AutoAdvance(ctx context.Context, orderID int64) error {
	for attempt := 0; attempt < transitionRetries; attempt++ {
		order, err := u.orders.GetByID(ctx, orderID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := u.now()
		if !order.AutoDue(now) {
			return nil
		}

		next, ok := policy.SystemTransition(order.Status)
		if !ok {
			// clearing a stale flag is not a transition: no history, no alert
			return u.orders.ClearSchedule(ctx, order.ID)
		}

		system := model.SystemActor()
		decision, err := policy.Decide(system, order, next, now)
		if err != nil {
			return err
		}

		change, err := u.orders.ApplyTransition(ctx, repository.TransitionRecord{
			Order:          order,
			PreviousStatus: order.Status,
			NewStatus:      next,
			NextStatusAt:   decision.NextStatusAt,
			Actor:          system,
			Action:         model.ActionAutoStatusChange,
			ChangedAt:      now,
		})
		if errors.Is(err, domainErrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return err
		}

		u.broadcastChange(order.ID, change, system)
		return nil
	}

	return domainErrors.ErrVersionConflict
}

// DueOrders returns orders whose scheduled auto-transition time has elapsed.
func (u *OrderUseCase) DueOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.Due(ctx, u.now(), limit)
}

// Get resolves one order with its histories. Non-admins may only read their
// own orders.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetail, error) {
	detail, err := u.orders.Detail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(&detail.Order) {
		return nil, domainErrors.ErrNotOwner
	}
	return detail, nil
}

// List returns a filtered, paginated order listing. Non-admins are always
// scoped to their own orders.
func (u *OrderUseCase) List(ctx context.Context, actor model.Actor, filterBy, search string, page, perPage int) ([]model.OrderListed, int64, error) {
	filter := model.OrderFilter{
		Search:  strings.TrimSpace(search),
		Page:    page,
		PerPage: perPage,
	}
	if filter.Page <= 0 {
		filter.Page = defaultPage
	}
	if filter.PerPage <= 0 {
		filter.PerPage = defaultPerPage
	}
	if !actor.IsAdmin() {
		filter.OwnerID = actor.ID
	}
	if filterBy != "" {
		status, ok := model.ParseStatus(filterBy)
		if !ok {
			return nil, 0, fmt.Errorf("%w: no status exists with name %q", domainErrors.ErrValidation, filterBy)
		}
		filter.Status = &status
	}
	return u.orders.List(ctx, filter)
}

// Stats returns per-status order counts plus a TOTAL bucket, scoped to the
// caller for non-admins.
func (u *OrderUseCase) Stats(ctx context.Context, actor model.Actor) ([]model.StatusCount, error) {
	var ownerID *int64
	if !actor.IsAdmin() {
		ownerID = actor.ID
	}

	counts, err := u.orders.StatusCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return append(counts, model.StatusCount{Status: "TOTAL", Count: total}), nil
}

// AddComment appends to the order's immutable comment history. Only the
// owner or an admin may comment.
func (u *OrderUseCase) AddComment(ctx context.Context, actor model.Actor, orderID int64, comment string) (*model.Comment, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", domainErrors.ErrValidation)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(order) {
		return nil, domainErrors.ErrNotOwner
	}

	return u.orders.AddComment(ctx, orderID, comment, actor, u.now())
}

// Delete removes the order and its stored screenshots. Alert feed entries
// referencing the order are deliberately kept. Screenshot removal is
// best-effort so a storage blip cannot orphan the database row.
func (u *OrderUseCase) Delete(ctx context.Context, actor model.Actor, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !actor.Owns(order) {
		return domainErrors.ErrNotOwner
	}

	urls := []string{order.OrderSS, order.ProductSS}
	if order.ReviewSS != nil {
		urls = append(urls, *order.ReviewSS)
	}
	if order.RefundSS != nil {
		urls = append(urls, *order.RefundSS)
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := u.store.Delete(ctx, u.store.KeyFromURL(url)); err != nil {
			u.logger.Error("delete screenshot failed", slog.String("url", url), slog.String("error", err.Error()))
		}
	}

	return u.orders.Delete(ctx, orderID)
}

func (u *OrderUseCase) broadcastChange(orderID int64, change *model.StatusChange, actor model.Actor) {
	u.notifier.Broadcast(EventOrderStatusChanged, StatusEvent{
		OrderID:        orderID,
		PreviousStatus: change.PreviousStatus,
		NewStatus:      change.NewStatus,
		ChangedBy:      eventActor(actor),
		CreatedAt:      change.ChangedAt,
	})
}
