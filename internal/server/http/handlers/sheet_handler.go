package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okonev/orderdesk/internal/server/http/dto"
)

// SheetHandler manages sheet endpoints.
type SheetHandler struct {
	facade SheetFacade
}

// NewSheetHandler constructs SheetHandler.
func NewSheetHandler(facade SheetFacade) *SheetHandler {
	return &SheetHandler{facade: facade}
}

// Create handles POST /api/sheets.
func (h *SheetHandler) Create(c *gin.Context) {
	var req dto.SheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("name is required"))
		return
	}

	sheet, err := h.facade.CreateSheet(c.Request.Context(), CurrentActor(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "sheet": dto.SheetResponse{
		ID:        sheet.ID,
		Name:      sheet.Name,
		CreatedAt: sheet.CreatedAt,
	}})
}

// List handles GET /api/sheets.
func (h *SheetHandler) List(c *gin.Context) {
	sheets, err := h.facade.Sheets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.SheetListResponse{Success: true, Sheets: make([]dto.SheetResponse, 0, len(sheets))}
	for _, sheet := range sheets {
		resp.Sheets = append(resp.Sheets, dto.SheetResponse{
			ID:        sheet.ID,
			Name:      sheet.Name,
			CreatedAt: sheet.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/sheets/:id.
func (h *SheetHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.facade.DeleteSheet(c.Request.Context(), CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "sheet deleted"})
}
