package dto

import "time"

// AlertOrderRef is the order slice attached to alert entries. It is null when
// the referenced order has been deleted.
type AlertOrderRef struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	OrderName string `json:"orderName"`
	Status    string `json:"status"`
}

// AlertResponse is one entry of the alert feed.
type AlertResponse struct {
	ID             int64          `json:"id"`
	OrderID        int64          `json:"orderId"`
	Action         string         `json:"action"`
	PreviousStatus string         `json:"previousStatus"`
	NewStatus      string         `json:"newStatus"`
	Role           string         `json:"role"`
	Order          *AlertOrderRef `json:"order"`
	ChangedBy      *UserResponse  `json:"changedBy"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// AlertListResponse is one page of the alert feed.
type AlertListResponse struct {
	Success    bool            `json:"success"`
	Alerts     []AlertResponse `json:"alerts"`
	Page       int             `json:"page"`
	PerPage    int             `json:"perPage"`
	TotalCount int64           `json:"totalCount"`
	TotalPages int64           `json:"totalPages"`
}
