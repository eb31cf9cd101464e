package dto

import "time"

// CreateOrderForm is the multipart payload of an order submission. The two
// screenshot files ride alongside as OrderSS and AmazonProductSS.
type CreateOrderForm struct {
	AmazonOrderNo string   `form:"amazonOrderNo" validate:"required"`
	OrderName     string   `form:"orderName" validate:"required"`
	BuyerName     string   `form:"buyerName" validate:"required"`
	BuyerPaypal   string   `form:"buyerPaypal" validate:"required"`
	Comment       string   `form:"comment"`
	SheetName     string   `form:"sheetName"`
	Commission    *float64 `form:"commission"`
}

// StatusForm is the multipart payload of a status change. Optional ReviewSS
// and RefundSS screenshot files may ride alongside.
type StatusForm struct {
	Status     string   `form:"status" validate:"required"`
	Commission *float64 `form:"commission"`
}

// CommentRequest describes an appended order comment.
type CommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// SheetRef is the sheet slice attached to order payloads.
type SheetRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderResponse is the public order representation.
type OrderResponse struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	AmazonOrderNo string        `json:"amazonOrderNo"`
	OrderName     string        `json:"orderName"`
	BuyerName     string        `json:"buyerName"`
	BuyerPaypal   string        `json:"buyerPaypal"`
	OrderSS       string        `json:"orderSS"`
	ProductSS     string        `json:"productSS"`
	ReviewSS      *string       `json:"reviewSS"`
	RefundSS      *string       `json:"refundSS"`
	Commission    *float64      `json:"commission"`
	Status        string        `json:"status"`
	NextStatusAt  *time.Time    `json:"nextStatusAt"`
	Owner         *UserResponse `json:"owner,omitempty"`
	Sheet         *SheetRef     `json:"sheet,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// StatusChangeResponse is one status history entry.
type StatusChangeResponse struct {
	ID             int64     `json:"id"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ChangedBy      *int64    `json:"changedBy"`
	Role           string    `json:"role"`
	ChangedAt      time.Time `json:"changedAt"`
}

// CommentResponse is one comment history entry.
type CommentResponse struct {
	ID          int64     `json:"id"`
	Comment     string    `json:"comment"`
	CommentedBy int64     `json:"commentedBy"`
	Role        string    `json:"role"`
	CommentedAt time.Time `json:"commentedAt"`
}

// OrderDetailResponse resolves an order with its histories.
type OrderDetailResponse struct {
	Success  bool                   `json:"success"`
	Order    OrderResponse          `json:"order"`
	History  []StatusChangeResponse `json:"history"`
	Comments []CommentResponse      `json:"comments"`
}

// OrderListResponse is one page of orders.
type OrderListResponse struct {
	Success    bool            `json:"success"`
	Orders     []OrderResponse `json:"orders"`
	Page       int             `json:"page"`
	PerPage    int             `json:"perPage"`
	TotalCount int64           `json:"totalCount"`
	TotalPages int64           `json:"totalPages"`
}

// StatusCountResponse is one bucket of the order statistics.
type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatsResponse carries per-status order counts.
type StatsResponse struct {
	Success bool                  `json:"success"`
	Stats   []StatusCountResponse `json:"stats"`
}
