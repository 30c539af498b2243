package postgres

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

type inventoryRepository struct {
	db querier
}

func (r *inventoryRepository) Append(ctx context.Context, e *model.InventoryLogEntry) error {
	const query = `INSERT INTO inventory_logs (variant_id, change_type, quantity_delta, previous_quantity, new_quantity, reason, actor_id, order_id)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, e.VariantID, e.ChangeType, e.QuantityDelta, e.PreviousQuantity, e.NewQuantity, e.Reason, e.ActorID, e.OrderID).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *inventoryRepository) ListByVariant(ctx context.Context, variantID int64) ([]model.InventoryLogEntry, error) {
	const query = `SELECT id, variant_id, change_type, quantity_delta, previous_quantity, new_quantity, reason, actor_id, order_id, created_at
                   FROM inventory_logs WHERE variant_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, variantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.InventoryLogEntry
	for rows.Next() {
		var e model.InventoryLogEntry
		if err := rows.Scan(&e.ID, &e.VariantID, &e.ChangeType, &e.QuantityDelta, &e.PreviousQuantity, &e.NewQuantity,
			&e.Reason, &e.ActorID, &e.OrderID, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
