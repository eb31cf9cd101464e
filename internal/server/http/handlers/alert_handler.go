package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okonev/orderdesk/internal/server/http/dto"
)

// AlertHandler serves the alert feed.
type AlertHandler struct {
	facade AlertFacade
}

// NewAlertHandler constructs AlertHandler.
func NewAlertHandler(facade AlertFacade) *AlertHandler {
	return &AlertHandler{facade: facade}
}

// List handles GET /api/alerts.
func (h *AlertHandler) List(c *gin.Context) {
	page, err := h.facade.Alerts(c.Request.Context(), CurrentActor(c),
		queryInt(c, "page", 0), queryInt(c, "perPage", 0))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.AlertListResponse{
		Success:    true,
		Alerts:     make([]dto.AlertResponse, 0, len(page.Entries)),
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages(),
	}
	for _, entry := range page.Entries {
		alert := dto.AlertResponse{
			ID:             entry.Alert.ID,
			OrderID:        entry.Alert.OrderID,
			Action:         string(entry.Action),
			PreviousStatus: string(entry.PreviousStatus),
			NewStatus:      string(entry.NewStatus),
			Role:           string(entry.Role),
			CreatedAt:      entry.Alert.CreatedAt,
		}
		if entry.Order != nil {
			alert.Order = &dto.AlertOrderRef{
				ID:        entry.Order.ID,
				UserID:    entry.Order.UserID,
				OrderName: entry.Order.OrderName,
				Status:    string(entry.Order.Status),
			}
		}
		if entry.Actor != nil {
			alert.ChangedBy = &dto.UserResponse{
				ID:       entry.Actor.ID,
				Email:    entry.Actor.Email,
				Username: entry.Actor.Username,
			}
		}
		resp.Alerts = append(resp.Alerts, alert)
	}

	c.JSON(http.StatusOK, resp)
}
