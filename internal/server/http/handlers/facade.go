package handlers

import (
	"context"

	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, username, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (model.Actor, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, error)
	ChangeOrderStatus(ctx context.Context, actor model.Actor, orderID int64, status string, patch model.OrderPatch) (*model.Order, error)
	OrderDetail(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetail, error)
	Orders(ctx context.Context, actor model.Actor, filterBy, search string, page, perPage int) ([]model.OrderListed, int64, error)
	OrderStats(ctx context.Context, actor model.Actor) ([]model.StatusCount, error)
	AddOrderComment(ctx context.Context, actor model.Actor, orderID int64, comment string) (*model.Comment, error)
	DeleteOrder(ctx context.Context, actor model.Actor, orderID int64) error
	UploadScreenshot(ctx context.Context, kind string, shot usecase.Screenshot) (string, error)
}

// AlertFacade exposes the alert feed.
type AlertFacade interface {
	Alerts(ctx context.Context, actor model.Actor, page, perPage int) (*model.AlertPage, error)
}

// SheetFacade encapsulates sheet management.
type SheetFacade interface {
	CreateSheet(ctx context.Context, actor model.Actor, name string) (*model.Sheet, error)
	Sheets(ctx context.Context) ([]model.Sheet, error)
	DeleteSheet(ctx context.Context, actor model.Actor, id int64) error
}

// OrderDeskFacade aggregates the full set of operations used across handlers.
type OrderDeskFacade interface {
	AuthFacade
	OrderFacade
	AlertFacade
	SheetFacade
}
