package model

import "time"

// Order describes a purchase order submitted by a user.
type Order struct {
	ID            int64
	UserID        int64
	SheetID       *int64
	AmazonOrderNo string
	OrderName     string
	BuyerName     string
	BuyerPaypal   string
	OrderSS       string
	ProductSS     string
	ReviewSS      *string
	RefundSS      *string
	Commission    *float64
	Status        OrderStatus
	NextStatusAt  *time.Time
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AutoDue reports whether the order is eligible for an automatic transition.
func (o *Order) AutoDue(now time.Time) bool {
	return o.NextStatusAt != nil && !o.NextStatusAt.After(now)
}

// OrderDraft carries the fields required to create an order.
type OrderDraft struct {
	UserID        int64
	SheetID       *int64
	AmazonOrderNo string
	OrderName     string
	BuyerName     string
	BuyerPaypal   string
	OrderSS       string
	ProductSS     string
	Commission    *float64
	Comment       string
}

// OrderPatch carries optional payload updates that may ride along a status
// change request.
type OrderPatch struct {
	Commission *float64
	ReviewSS   *string
	RefundSS   *string
}

// Empty reports whether the patch carries no updates.
func (p OrderPatch) Empty() bool {
	return p.Commission == nil && p.ReviewSS == nil && p.RefundSS == nil
}

// StatusChange is one immutable entry of an order's status history.
type StatusChange struct {
	ID             int64
	OrderID        int64
	PreviousStatus OrderStatus
	NewStatus      OrderStatus
	ChangedBy      *int64
	Role           Role
	ChangedAt      time.Time
}

// Comment is one immutable entry of an order's comment history.
type Comment struct {
	ID          int64
	OrderID     int64
	Comment     string
	CommentedBy int64
	Role        Role
	CommentedAt time.Time
}

// OrderDetail is an order resolved with its histories for display.
type OrderDetail struct {
	Order
	Owner    UserSummary
	Sheet    *SheetSummary
	History  []StatusChange
	Comments []Comment
}

// OrderListed is one row of a paginated order listing.
type OrderListed struct {
	Order
	Owner UserSummary
	Sheet *SheetSummary
}

// OrderFilter narrows and paginates an order listing.
type OrderFilter struct {
	OwnerID *int64
	Status  *OrderStatus
	Search  string
	Page    int
	PerPage int
}

// StatusCount is one bucket of the per-status order statistics.
type StatusCount struct {
	Status string
	Count  int64
}
