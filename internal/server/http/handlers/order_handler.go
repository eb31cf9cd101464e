package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/server/http/dto"
	"github.com/okonev/orderdesk/internal/usecase"
)

// Multipart file field names, fixed by the frontend contract.
const (
	orderScreenshotField   = "OrderSS"
	productScreenshotField = "AmazonProductSS"
	reviewScreenshotField  = "ReviewSS"
	refundScreenshotField  = "RefundSS"
)

var validate = validator.New()

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var form dto.CreateOrderForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid order payload"))
		return
	}
	if err := validate.Struct(form); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("missing required order fields"))
		return
	}

	orderSS, err := formScreenshot(c, orderScreenshotField)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("unreadable order screenshot"))
		return
	}
	productSS, err := formScreenshot(c, productScreenshotField)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("unreadable product screenshot"))
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentActor(c), usecase.CreateOrderInput{
		AmazonOrderNo: form.AmazonOrderNo,
		OrderName:     form.OrderName,
		BuyerName:     form.BuyerName,
		BuyerPaypal:   form.BuyerPaypal,
		Comment:       form.Comment,
		SheetName:     form.SheetName,
		Commission:    form.Commission,
		OrderSS:       orderSS,
		ProductSS:     productSS,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": toOrderResponse(order, nil, nil)})
}

// ChangeStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var form dto.StatusForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid status payload"))
		return
	}
	if err := validate.Struct(form); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("status is required"))
		return
	}

	actor := CurrentActor(c)
	patch := model.OrderPatch{Commission: form.Commission}

	if reviewSS, err := formScreenshot(c, reviewScreenshotField); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("unreadable review screenshot"))
		return
	} else if reviewSS != nil {
		url, err := h.facade.UploadScreenshot(c.Request.Context(), "screenshots/review", *reviewSS)
		if err != nil {
			respondError(c, err)
			return
		}
		patch.ReviewSS = &url
	}

	if refundSS, err := formScreenshot(c, refundScreenshotField); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("unreadable refund screenshot"))
		return
	} else if refundSS != nil {
		// Refund proof is an admin affordance; reject before uploading.
		if !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, dto.Error("forbidden"))
			return
		}
		url, err := h.facade.UploadScreenshot(c.Request.Context(), "screenshots/refund", *refundSS)
		if err != nil {
			respondError(c, err)
			return
		}
		patch.RefundSS = &url
	}

	order, err := h.facade.ChangeOrderStatus(c.Request.Context(), actor, id, form.Status, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": toOrderResponse(order, nil, nil)})
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.facade.OrderDetail(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.OrderDetailResponse{
		Success:  true,
		Order:    toOrderResponse(&detail.Order, &detail.Owner, detail.Sheet),
		History:  make([]dto.StatusChangeResponse, 0, len(detail.History)),
		Comments: make([]dto.CommentResponse, 0, len(detail.Comments)),
	}
	for _, change := range detail.History {
		resp.History = append(resp.History, dto.StatusChangeResponse{
			ID:             change.ID,
			PreviousStatus: string(change.PreviousStatus),
			NewStatus:      string(change.NewStatus),
			ChangedBy:      change.ChangedBy,
			Role:           string(change.Role),
			ChangedAt:      change.ChangedAt,
		})
	}
	for _, comment := range detail.Comments {
		resp.Comments = append(resp.Comments, toCommentResponse(comment))
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 0)
	perPage := queryInt(c, "perPage", 0)

	orders, total, err := h.facade.Orders(c.Request.Context(), CurrentActor(c),
		c.Query("filterBy"), c.Query("search"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	resp := dto.OrderListResponse{
		Success:    true,
		Orders:     make([]dto.OrderResponse, 0, len(orders)),
		Page:       page,
		PerPage:    perPage,
		TotalCount: total,
		TotalPages: (total + int64(perPage) - 1) / int64(perPage),
	}
	for _, item := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&item.Order, &item.Owner, item.Sheet))
	}

	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /api/orders/stats.
func (h *OrderHandler) Stats(c *gin.Context) {
	counts, err := h.facade.OrderStats(c.Request.Context(), CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.StatsResponse{Success: true, Stats: make([]dto.StatusCountResponse, 0, len(counts))}
	for _, count := range counts {
		resp.Stats = append(resp.Stats, dto.StatusCountResponse{Status: count.Status, Count: count.Count})
	}
	c.JSON(http.StatusOK, resp)
}

// AddComment handles POST /api/orders/:id/comments.
func (h *OrderHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("comment is required"))
		return
	}

	comment, err := h.facade.AddOrderComment(c.Request.Context(), CurrentActor(c), id, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": toCommentResponse(*comment)})
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "order deleted"})
}

func toOrderResponse(order *model.Order, owner *model.UserSummary, sheet *model.SheetSummary) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		AmazonOrderNo: order.AmazonOrderNo,
		OrderName:     order.OrderName,
		BuyerName:     order.BuyerName,
		BuyerPaypal:   order.BuyerPaypal,
		OrderSS:       order.OrderSS,
		ProductSS:     order.ProductSS,
		ReviewSS:      order.ReviewSS,
		RefundSS:      order.RefundSS,
		Commission:    order.Commission,
		Status:        string(order.Status),
		NextStatusAt:  order.NextStatusAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if owner != nil {
		resp.Owner = &dto.UserResponse{ID: owner.ID, Email: owner.Email, Username: owner.Username}
	}
	if sheet != nil {
		resp.Sheet = &dto.SheetRef{ID: sheet.ID, Name: sheet.Name}
	}
	return resp
}

func toCommentResponse(comment model.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          comment.ID,
		Comment:     comment.Comment,
		CommentedBy: comment.CommentedBy,
		Role:        string(comment.Role),
		CommentedAt: comment.CommentedAt,
	}
}
