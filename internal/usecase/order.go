package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

// OrderUseCase serves read access to orders.
type OrderUseCase struct {
	repos repository.Factory
	fees  *DeliveryFeeCalculator
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(repos repository.Factory, fees *DeliveryFeeCalculator) *OrderUseCase {
	return &OrderUseCase{repos: repos, fees: fees}
}

// Get returns the order with its items and payment transaction.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.OrderReceipt, error) {
	order, err := u.repos.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.receipt(ctx, order)
}

// GetByNumber looks an order up by its public number.
func (u *OrderUseCase) GetByNumber(ctx context.Context, number string) (*model.OrderReceipt, error) {
	order, err := u.repos.Orders().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return u.receipt(ctx, order)
}

// History returns status transitions of an order, oldest first.
func (u *OrderUseCase) History(ctx context.Context, id int64) ([]model.OrderStatusHistoryEntry, error) {
	if _, err := u.repos.Orders().GetByID(ctx, id); err != nil {
		return nil, err
	}
	return u.repos.History().ListByOrder(ctx, id)
}

func (u *OrderUseCase) receipt(ctx context.Context, order *model.Order) (*model.OrderReceipt, error) {
	items, err := u.repos.Orders().Items(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	txn, err := u.repos.Payments().GetByOrder(ctx, order.ID)
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}
	return &model.OrderReceipt{Order: *order, Items: items, Transaction: txn, Delivery: u.fees.Breakdown(order)}, nil
}
