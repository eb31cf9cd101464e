package repository

import (
	"context"

	"github.com/okonev/orderdesk/internal/domain/model"
)

// AlertRepository reads the append-only alert feed. Entries are written only
// inside order transactions; there is no standalone insert.
type AlertRepository interface {
	List(ctx context.Context, filter model.AlertFilter) (*model.AlertPage, error)
}
