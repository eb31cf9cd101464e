package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/usecase"
)

// SweeperFacadeStub mimics sweeper interactions with the order automation facade.
type SweeperFacadeStub struct {
	Batches      [][]model.Order
	DueFn        func(context.Context, int) ([]model.Order, error)
	AdvanceFn    func(context.Context, int64) error
	Advanced     []int64
	mu           sync.Mutex
	dueCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// DueOrders returns batches from configured queue.
func (s *SweeperFacadeStub) DueOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if s.DueFn != nil {
		return s.DueFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.dueCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// AutoAdvance records advanced order identifiers.
func (s *SweeperFacadeStub) AutoAdvance(ctx context.Context, orderID int64) error {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Advanced = append(s.Advanced, orderID)
	return nil
}

// AuthFacadeStub mimics authentication behavior for handler tests.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (model.Actor, error)
}

// Register returns a configured or default user+token pair.
func (s AuthFacadeStub) Register(ctx context.Context, email, username, password string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, username, password)
	}
	return &model.User{ID: 1, Email: email, Username: username, Role: model.RoleUser}, "token", nil
}

// Authenticate returns a configured or default user+token pair.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: 1, Email: email, Username: "user", Role: model.RoleUser}, "token", nil
}

// ParseToken resolves tokens into actors.
func (s AuthFacadeStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	id := int64(1)
	return model.Actor{ID: &id, Username: "user", Role: model.RoleUser}, nil
}

// TokenParserStub resolves tokens for middleware tests.
type TokenParserStub struct {
	Actor model.Actor
	Err   error
}

// ParseToken returns the configured actor or error.
func (s TokenParserStub) ParseToken(string) (model.Actor, error) {
	if s.Err != nil {
		return model.Actor{}, s.Err
	}
	return s.Actor, nil
}

// OrderFacadeStub mimics order operations for handler tests.
type OrderFacadeStub struct {
	CreateFn   func(context.Context, model.Actor, usecase.CreateOrderInput) (*model.Order, error)
	ChangeFn   func(context.Context, model.Actor, int64, string, model.OrderPatch) (*model.Order, error)
	DetailFn   func(context.Context, model.Actor, int64) (*model.OrderDetail, error)
	OrdersFn   func(context.Context, model.Actor, string, string, int, int) ([]model.OrderListed, int64, error)
	StatsFn    func(context.Context, model.Actor) ([]model.StatusCount, error)
	CommentFn  func(context.Context, model.Actor, int64, string) (*model.Comment, error)
	DeleteFn   func(context.Context, model.Actor, int64) error
	UploadFn   func(context.Context, string, usecase.Screenshot) (string, error)
}

// CreateOrder returns a configured or default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, actor, input)
	}
	return &model.Order{ID: 1, Status: model.StatusOrdered, OrderName: input.OrderName}, nil
}

// ChangeOrderStatus returns a configured or default transitioned order.
func (s OrderFacadeStub) ChangeOrderStatus(ctx context.Context, actor model.Actor, orderID int64, status string, patch model.OrderPatch) (*model.Order, error) {
	if s.ChangeFn != nil {
		return s.ChangeFn(ctx, actor, orderID, status, patch)
	}
	parsed, _ := model.ParseStatus(status)
	return &model.Order{ID: orderID, Status: parsed}, nil
}

// OrderDetail returns a configured or default detail.
func (s OrderFacadeStub) OrderDetail(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetail, error) {
	if s.DetailFn != nil {
		return s.DetailFn(ctx, actor, orderID)
	}
	return &model.OrderDetail{Order: model.Order{ID: orderID, Status: model.StatusOrdered}}, nil
}

// Orders returns a configured or empty listing.
func (s OrderFacadeStub) Orders(ctx context.Context, actor model.Actor, filterBy, search string, page, perPage int) ([]model.OrderListed, int64, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, filterBy, search, page, perPage)
	}
	return nil, 0, nil
}

// OrderStats returns configured or empty counts.
func (s OrderFacadeStub) OrderStats(ctx context.Context, actor model.Actor) ([]model.StatusCount, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx, actor)
	}
	return nil, nil
}

// AddOrderComment returns a configured or default comment.
func (s OrderFacadeStub) AddOrderComment(ctx context.Context, actor model.Actor, orderID int64, comment string) (*model.Comment, error) {
	if s.CommentFn != nil {
		return s.CommentFn(ctx, actor, orderID, comment)
	}
	return &model.Comment{ID: 1, OrderID: orderID, Comment: comment}, nil
}

// DeleteOrder returns the configured error.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, actor model.Actor, orderID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, orderID)
	}
	return nil
}

// UploadScreenshot returns a deterministic URL.
func (s OrderFacadeStub) UploadScreenshot(ctx context.Context, kind string, shot usecase.Screenshot) (string, error) {
	if s.UploadFn != nil {
		return s.UploadFn(ctx, kind, shot)
	}
	return "https://cdn.test/" + kind + "/stub", nil
}

// AlertFacadeStub mimics the alert feed for handler tests.
type AlertFacadeStub struct {
	AlertsFn func(context.Context, model.Actor, int, int) (*model.AlertPage, error)
}

// Alerts returns a configured or empty page.
func (s AlertFacadeStub) Alerts(ctx context.Context, actor model.Actor, page, perPage int) (*model.AlertPage, error) {
	if s.AlertsFn != nil {
		return s.AlertsFn(ctx, actor, page, perPage)
	}
	return &model.AlertPage{Page: 1, PerPage: 10}, nil
}

// SheetFacadeStub mimics sheet management for handler tests.
type SheetFacadeStub struct {
	CreateFn func(context.Context, model.Actor, string) (*model.Sheet, error)
	ListFn   func(context.Context) ([]model.Sheet, error)
	DeleteFn func(context.Context, model.Actor, int64) error
}

// CreateSheet returns a configured or default sheet.
func (s SheetFacadeStub) CreateSheet(ctx context.Context, actor model.Actor, name string) (*model.Sheet, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, actor, name)
	}
	return &model.Sheet{ID: 1, Name: name}, nil
}

// Sheets returns a configured or empty listing.
func (s SheetFacadeStub) Sheets(ctx context.Context) ([]model.Sheet, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

// DeleteSheet returns the configured error.
func (s SheetFacadeStub) DeleteSheet(ctx context.Context, actor model.Actor, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, id)
	}
	return nil
}

// OrderDeskFacadeStub aggregates all handler facades.
type OrderDeskFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	AlertFacadeStub
	SheetFacadeStub
}
