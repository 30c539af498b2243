package repository

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

// CustomerRepository describes persistence operations for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	UpdateContact(ctx context.Context, id int64, info model.ContactInfo) (*model.Customer, error)
}
