package postgres

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

type historyRepository struct {
	db querier
}

func (r *historyRepository) Append(ctx context.Context, e *model.OrderStatusHistoryEntry) error {
	const query = `INSERT INTO order_status_history (order_id, from_status, to_status, actor_id, notes, is_override)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, e.OrderID, e.FromStatus, e.ToStatus, e.ActorID, e.Notes, e.Override).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *historyRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderStatusHistoryEntry, error) {
	const query = `SELECT id, order_id, from_status, to_status, actor_id, notes, is_override, created_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderStatusHistoryEntry
	for rows.Next() {
		var e model.OrderStatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.Notes, &e.Override, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
