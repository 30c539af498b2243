package postgres

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

type customerRepository struct {
	db querier
}

const customerColumns = `id, user_id, first_name, last_name, email, phone, is_guest, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	const query = `INSERT INTO customers (user_id, first_name, last_name, email, phone, is_guest)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.IsGuest).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	var c model.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.IsGuest, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *customerRepository) UpdateContact(ctx context.Context, id int64, info model.ContactInfo) (*model.Customer, error) {
	const query = `UPDATE customers SET first_name=$2, last_name=$3, email=$4, phone=$5, updated_at=NOW()
                   WHERE id=$1
                   RETURNING ` + customerColumns
	var c model.Customer
	err := r.db.QueryRow(ctx, query, id, info.FirstName, info.LastName, info.Email, info.Phone).
		Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.IsGuest, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}
