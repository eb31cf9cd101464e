package model

import "time"

// Sheet is a named grouping orders may be attached to.
type Sheet struct {
	ID        int64
	Name      string
	CreatedBy int64
	CreatedAt time.Time
}

// SheetSummary is the slice of a sheet attached to order listings.
type SheetSummary struct {
	ID   int64
	Name string
}
