package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
)

type variantRepository struct {
	db querier
}

func (r *variantRepository) Snapshots(ctx context.Context, ids []int64) (map[int64]model.VariantSnapshot, error) {
	const query = `SELECT v.id, v.product_id, v.sku, v.size, v.color, v.stock_quantity, v.price_delta_cents, v.is_active, v.updated_at,
                          p.name, p.base_price_cents, p.is_active
                   FROM product_variants v
                   JOIN products p ON p.id = v.product_id
                   WHERE v.id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.VariantSnapshot, len(ids))
	for rows.Next() {
		var (
			s          model.VariantSnapshot
			deltaCents int64
			baseCents  int64
		)
		v := &s.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Size, &v.Color, &v.StockQuantity, &deltaCents, &v.Active, &v.UpdatedAt,
			&s.ProductName, &baseCents, &s.ProductActive); err != nil {
			return nil, err
		}
		v.PriceDelta = model.FromCents(deltaCents)
		s.BasePrice = model.FromCents(baseCents)
		result[v.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustStock applies a conditional update so concurrent writers can never drive stock negative.
func (r *variantRepository) AdjustStock(ctx context.Context, variantID int64, delta int) (model.StockChange, error) {
	const update = `UPDATE product_variants
                    SET stock_quantity = stock_quantity + $2, updated_at = NOW()
                    WHERE id = $1 AND stock_quantity + $2 >= 0
                    RETURNING stock_quantity - $2, stock_quantity`
	change := model.StockChange{VariantID: variantID}
	err := r.db.QueryRow(ctx, update, variantID, delta).Scan(&change.Previous, &change.New)
	if err == nil {
		return change, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return change, err
	}
	return change, r.shortage(ctx, variantID, delta)
}

func (r *variantRepository) shortage(ctx context.Context, variantID int64, delta int) error {
	const query = `SELECT sku, stock_quantity FROM product_variants WHERE id=$1`
	var (
		sku       string
		available int
	)
	if err := r.db.QueryRow(ctx, query, variantID).Scan(&sku, &available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domainErrors.VariantNotFoundError{VariantID: variantID}
		}
		return err
	}
	return &domainErrors.InsufficientStockError{Shortages: []model.StockShortage{{
		VariantID: variantID,
		SKU:       sku,
		Requested: -delta,
		Available: available,
	}}}
}
