package model

import "time"

// AlertAction tags the cause of an alert feed entry.
type AlertAction string

const (
	ActionCreateOrder      AlertAction = "CREATE_ORDER"
	ActionStatusChanged    AlertAction = "STATUS_CHANGED"
	ActionAutoStatusChange AlertAction = "AUTO_STATUS_CHANGE"
)

// Alert is one append-only record of a status change, kept separately from
// the order's own history so it can be queried independently. Entries survive
// deletion of the order they reference.
type Alert struct {
	ID             int64
	OrderID        int64
	ChangedBy      *int64
	Role           Role
	PreviousStatus OrderStatus
	NewStatus      OrderStatus
	Action         AlertAction
	CreatedAt      time.Time
}

// AlertOrderSummary is the slice of an order exposed through the alert feed.
type AlertOrderSummary struct {
	ID        int64
	UserID    int64
	OrderName string
	Status    OrderStatus
}

// AlertEntry is an alert resolved with its order and actor summaries. Order
// is nil when the referenced order has been deleted.
type AlertEntry struct {
	Alert
	Order *AlertOrderSummary
	Actor *UserSummary
}

// AlertFilter paginates the alert feed. A non-nil OwnerID restricts the feed,
// including its totals, to alerts on orders owned by that user.
type AlertFilter struct {
	OwnerID *int64
	Page    int
	PerPage int
}

// AlertPage is one page of the alert feed with pagination totals.
type AlertPage struct {
	Entries    []AlertEntry
	Page       int
	PerPage    int
	TotalCount int64
}

// TotalPages derives the page count from the filtered total.
func (p AlertPage) TotalPages() int64 {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.TotalCount + int64(p.PerPage) - 1) / int64(p.PerPage)
}
