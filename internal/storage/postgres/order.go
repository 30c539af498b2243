package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
)

type orderRepository struct {
	db querier
}

const orderColumns = `id, order_number, customer_id, status, payment_method, payment_status, payment_reference,
                      delivery_method, delivery_address, delivery_zone, delivery_instructions,
                      delivery_fee_cents, subtotal_cents, total_cents, source, notes,
                      created_at, updated_at, completed_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o                          model.Order
		feeCents, subCents, totCts int64
	)
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.PaymentReference,
		&o.DeliveryMethod, &o.DeliveryAddress, &o.DeliveryZone, &o.DeliveryInstructions,
		&feeCents, &subCents, &totCts, &o.Source, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	if err != nil {
		return nil, notFound(err)
	}
	o.DeliveryFee = model.FromCents(feeCents)
	o.Subtotal = model.FromCents(subCents)
	o.Total = model.FromCents(totCts)
	return &o, nil
}

// ReserveNumber takes a transaction-scoped advisory lock on the number before checking it,
// so two concurrent transactions can never both see the same candidate as free.
func (r *orderRepository) ReserveNumber(ctx context.Context, number string) (bool, error) {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, number); err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number=$1)`, number).Scan(&exists); err != nil {
		return false, err
	}
	return !exists, nil
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	const query = `INSERT INTO orders (order_number, customer_id, status, payment_method, payment_status, payment_reference,
                                      delivery_method, delivery_address, delivery_zone, delivery_instructions,
                                      delivery_fee_cents, subtotal_cents, total_cents, source, notes)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
                   RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		o.Number, o.CustomerID, o.Status, o.PaymentMethod, o.PaymentStatus, o.PaymentReference,
		o.DeliveryMethod, o.DeliveryAddress, o.DeliveryZone, o.DeliveryInstructions,
		model.Cents(o.DeliveryFee), model.Cents(o.Subtotal), model.Cents(o.Total), o.Source, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) AddItem(ctx context.Context, item *model.OrderLineItem) error {
	const query = `INSERT INTO order_items (order_id, product_id, variant_id, quantity, price_cents, product_name, size, color, sku)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                   RETURNING id`
	return r.db.QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.VariantID, item.Quantity, model.Cents(item.PriceAtPurchase),
		item.ProductName, item.Size, item.Color, item.SKU,
	).Scan(&item.ID)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, number))
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
}

func (r *orderRepository) Items(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	const query = `SELECT id, order_id, product_id, variant_id, quantity, price_cents, product_name, size, color, sku
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderLineItem
	for rows.Next() {
		var (
			item  model.OrderLineItem
			cents int64
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Quantity, &cents,
			&item.ProductName, &item.Size, &item.Color, &item.SKU); err != nil {
			return nil, err
		}
		item.PriceAtPurchase = model.FromCents(cents)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus changes status and, for DELIVERED, stamps completed_at in the same statement.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	const query = `UPDATE orders
                   SET status=$2, updated_at=NOW(),
                       completed_at = CASE WHEN $3 THEN NOW() ELSE completed_at END
                   WHERE id=$1
                   RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, id, status, status == model.OrderStatusDelivered))
}

func (r *orderRepository) UpdatePayment(ctx context.Context, id int64, status model.PaymentStatus, reference *string) error {
	const query = `UPDATE orders
                   SET payment_status=$2, payment_reference=COALESCE($3, payment_reference), updated_at=NOW()
                   WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id, status, reference)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
