package usecase

import (
	"time"

	"github.com/okonev/orderdesk/internal/domain/model"
)

// Event names pushed through the realtime channel.
const (
	EventNewOrder           = "newOrder"
	EventOrderStatusChanged = "order-status-changed"
)

// Notifier broadcasts named events to connected observers. Delivery is
// best-effort; implementations must never block or fail the caller.
type Notifier interface {
	Broadcast(event string, payload any)
}

// EventActor identifies who performed a broadcast change. ID is null for the
// system principal.
type EventActor struct {
	ID       *int64     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// StatusEvent is the payload of an order-status-changed broadcast.
type StatusEvent struct {
	OrderID        int64             `json:"orderId"`
	PreviousStatus model.OrderStatus `json:"previousStatus"`
	NewStatus      model.OrderStatus `json:"newStatus"`
	ChangedBy      EventActor        `json:"changedBy"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// NewOrderEvent is the payload of a newOrder broadcast.
type NewOrderEvent struct {
	OrderID   int64             `json:"orderId"`
	UserID    int64             `json:"userId"`
	OrderName string            `json:"orderName"`
	Status    model.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

func eventActor(actor model.Actor) EventActor {
	return EventActor{ID: actor.ID, Username: actor.Username, Role: actor.Role}
}
