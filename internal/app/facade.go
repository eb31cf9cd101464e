package app

import (
	"context"

	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/usecase"
)

// OrderDeskFacade is the single entry point the transport and automation
// layers talk to. It fans requests out to the underlying use cases.
type OrderDeskFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
	alerts *usecase.AlertUseCase
	sheets *usecase.SheetUseCase
	store  usecase.ScreenshotStore
}

func NewOrderDeskFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, alerts *usecase.AlertUseCase, sheets *usecase.SheetUseCase, store usecase.ScreenshotStore) *OrderDeskFacade {
	return &OrderDeskFacade{auth: auth, orders: orders, alerts: alerts, sheets: sheets, store: store}
}

func (f *OrderDeskFacade) Register(ctx context.Context, email, username, password string) (*model.User, string, error) {
	return f.auth.Register(ctx, email, username, password)
}

func (f *OrderDeskFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *OrderDeskFacade) ParseToken(token string) (model.Actor, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderDeskFacade) CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, actor, input)
}

func (f *OrderDeskFacade) ChangeOrderStatus(ctx context.Context, actor model.Actor, orderID int64, status string, patch model.OrderPatch) (*model.Order, error) {
	return f.orders.ChangeStatus(ctx, actor, orderID, status, patch)
}

func (f *OrderDeskFacade) OrderDetail(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetail, error) {
	return f.orders.Get(ctx, actor, orderID)
}

func (f *OrderDeskFacade) Orders(ctx context.Context, actor model.Actor, filterBy, search string, page, perPage int) ([]model.OrderListed, int64, error) {
	return f.orders.List(ctx, actor, filterBy, search, page, perPage)
}

func (f *OrderDeskFacade) OrderStats(ctx context.Context, actor model.Actor) ([]model.StatusCount, error) {
	return f.orders.Stats(ctx, actor)
}

func (f *OrderDeskFacade) AddOrderComment(ctx context.Context, actor model.Actor, orderID int64, comment string) (*model.Comment, error) {
	return f.orders.AddComment(ctx, actor, orderID, comment)
}

func (f *OrderDeskFacade) DeleteOrder(ctx context.Context, actor model.Actor, orderID int64) error {
	return f.orders.Delete(ctx, actor, orderID)
}

func (f *OrderDeskFacade) UploadScreenshot(ctx context.Context, kind string, shot usecase.Screenshot) (string, error) {
	return f.store.Upload(ctx, kind, shot)
}

func (f *OrderDeskFacade) Alerts(ctx context.Context, actor model.Actor, page, perPage int) (*model.AlertPage, error) {
	return f.alerts.List(ctx, actor, page, perPage)
}

func (f *OrderDeskFacade) CreateSheet(ctx context.Context, actor model.Actor, name string) (*model.Sheet, error) {
	return f.sheets.Create(ctx, actor, name)
}

func (f *OrderDeskFacade) Sheets(ctx context.Context) ([]model.Sheet, error) {
	return f.sheets.List(ctx)
}

func (f *OrderDeskFacade) DeleteSheet(ctx context.Context, actor model.Actor, id int64) error {
	return f.sheets.Delete(ctx, actor, id)
}

func (f *OrderDeskFacade) DueOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.DueOrders(ctx, limit)
}

func (f *OrderDeskFacade) AutoAdvance(ctx context.Context, orderID int64) error {
	return f.orders.AutoAdvance(ctx, orderID)
}
