package handlers

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/usecase"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, req usecase.CreateOrderRequest, actor *int64) (*model.OrderReceipt, error)
	Order(ctx context.Context, id int64) (*model.OrderReceipt, error)
	OrderByNumber(ctx context.Context, number string) (*model.OrderReceipt, error)
	History(ctx context.Context, id int64) ([]model.OrderStatusHistoryEntry, error)
	UpdateStatus(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, error)
	OverrideStatus(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, error)
}

// InventoryFacade provides stock operations.
type InventoryFacade interface {
	AdjustStock(ctx context.Context, req usecase.AdjustmentRequest) (*model.InventoryLogEntry, error)
	InventoryLog(ctx context.Context, variantID int64) ([]model.InventoryLogEntry, error)
}

// HealthFacade reports readiness.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// EngineFacade aggregates the full set of operations used across handlers.
type EngineFacade interface {
	OrderFacade
	InventoryFacade
	HealthFacade
}
