package repository

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

// InventoryLogRepository stores the stock audit trail.
type InventoryLogRepository interface {
	Append(ctx context.Context, entry *model.InventoryLogEntry) error
	ListByVariant(ctx context.Context, variantID int64) ([]model.InventoryLogEntry, error)
}
