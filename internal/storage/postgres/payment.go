package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
)

// recheckAfter keeps a pending transaction out of the batch for a while after it was checked.
const recheckAfter = "30 seconds"

type paymentRepository struct {
	db querier
}

func scanPayment(row pgx.Row) (*model.PaymentTransaction, error) {
	var (
		p     model.PaymentTransaction
		cents int64
	)
	err := row.Scan(&p.ID, &p.OrderID, &p.OrderNumber, &cents, &p.Method, &p.Provider, &p.Reference, &p.Status,
		&p.Verification, &p.CreatedAt, &p.UpdatedAt, &p.VerifiedAt)
	if err != nil {
		return nil, err
	}
	p.Amount = model.FromCents(cents)
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *model.PaymentTransaction) error {
	const query = `INSERT INTO payment_transactions (order_id, amount_cents, method, provider, reference, status)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, p.OrderID, model.Cents(p.Amount), p.Method, p.Provider, p.Reference, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *paymentRepository) GetByOrder(ctx context.Context, orderID int64) (*model.PaymentTransaction, error) {
	const query = `SELECT p.id, p.order_id, o.order_number, p.amount_cents, p.method, p.provider, p.reference, p.status,
                          p.verification, p.created_at, p.updated_at, p.verified_at
                   FROM payment_transactions p
                   JOIN orders o ON o.id = p.order_id
                   WHERE p.order_id=$1`
	p, err := scanPayment(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *paymentRepository) AttachReference(ctx context.Context, id int64, reference string) error {
	const query = `UPDATE payment_transactions SET reference=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id, reference)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// SelectPendingForVerification claims up to limit pending transactions in one statement.
// Rows locked by another worker are skipped and the claimed ones are stamped with checked_at.
func (r *paymentRepository) SelectPendingForVerification(ctx context.Context, limit int) ([]model.PaymentTransaction, error) {
	const query = `WITH picked AS (
                       SELECT id FROM payment_transactions
                       WHERE status = 'PENDING' AND reference IS NOT NULL
                         AND (checked_at IS NULL OR checked_at < NOW() - INTERVAL '` + recheckAfter + `')
                       ORDER BY created_at
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED
                   )
                   UPDATE payment_transactions p
                   SET checked_at = NOW()
                   FROM picked, orders o
                   WHERE p.id = picked.id AND o.id = p.order_id
                   RETURNING p.id, p.order_id, o.order_number, p.amount_cents, p.method, p.provider, p.reference, p.status,
                             p.verification, p.created_at, p.updated_at, p.verified_at`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentTransaction
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus, verification []byte) error {
	const query = `UPDATE payment_transactions
                   SET status=$2, verification=COALESCE($3, verification), updated_at=NOW(),
                       verified_at = CASE WHEN $4 THEN NOW() ELSE verified_at END
                   WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id, status, verification, status.Final())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
