package repository

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

// VariantRepository provides access to sellable variants and their stock.
type VariantRepository interface {
	// Snapshots loads variants joined with their products. Unknown ids are absent from the result.
	Snapshots(ctx context.Context, ids []int64) (map[int64]model.VariantSnapshot, error)
	// AdjustStock applies delta only if the resulting stock stays non-negative.
	AdjustStock(ctx context.Context, variantID int64, delta int) (model.StockChange, error)
}
