package dto

import "time"

// SheetRequest describes a sheet creation payload.
type SheetRequest struct {
	Name string `json:"name" binding:"required"`
}

// SheetResponse is the public sheet representation.
type SheetResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SheetListResponse lists all sheets.
type SheetListResponse struct {
	Success bool            `json:"success"`
	Sheets  []SheetResponse `json:"sheets"`
}
