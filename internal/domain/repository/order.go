package repository

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// ReserveNumber serializes concurrent use of number until the transaction ends
	// and reports whether no persisted order uses it yet.
	ReserveNumber(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, order *model.Order) error
	AddItem(ctx context.Context, item *model.OrderLineItem) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Order, error)
	Items(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
	UpdatePayment(ctx context.Context, id int64, status model.PaymentStatus, reference *string) error
}

// StatusHistoryRepository stores order status transitions.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *model.OrderStatusHistoryEntry) error
	ListByOrder(ctx context.Context, orderID int64) ([]model.OrderStatusHistoryEntry, error)
}
