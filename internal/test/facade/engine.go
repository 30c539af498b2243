// Package facade holds a controllable stand-in for the HTTP facade.
package facade

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/usecase"
)

// EngineFacadeStub provides controllable behaviour for HTTP handlers.
type EngineFacadeStub struct {
	CreateFn   func(context.Context, usecase.CreateOrderRequest, *int64) (*model.OrderReceipt, error)
	OrderFn    func(context.Context, int64) (*model.OrderReceipt, error)
	ByNumberFn func(context.Context, string) (*model.OrderReceipt, error)
	HistoryFn  func(context.Context, int64) ([]model.OrderStatusHistoryEntry, error)
	StatusFn   func(context.Context, int64, model.OrderStatus, *int64, string) (*model.Order, error)
	OverrideFn func(context.Context, int64, model.OrderStatus, *int64, string) (*model.Order, error)
	AdjustFn   func(context.Context, usecase.AdjustmentRequest) (*model.InventoryLogEntry, error)
	LogFn      func(context.Context, int64) ([]model.InventoryLogEntry, error)
	HealthErr  error
}

// CreateOrder delegates to provided function or echoes a pending order.
func (s EngineFacadeStub) CreateOrder(ctx context.Context, req usecase.CreateOrderRequest, actor *int64) (*model.OrderReceipt, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req, actor)
	}
	return &model.OrderReceipt{Order: model.Order{ID: 1, Number: "ORD-20260101-0001", Status: model.OrderStatusPending}}, nil
}

// Order returns configured order or a pending stub.
func (s EngineFacadeStub) Order(ctx context.Context, id int64) (*model.OrderReceipt, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.OrderReceipt{Order: model.Order{ID: id, Number: "ORD-20260101-0001", Status: model.OrderStatusPending}}, nil
}

// OrderByNumber returns configured order or a pending stub.
func (s EngineFacadeStub) OrderByNumber(ctx context.Context, number string) (*model.OrderReceipt, error) {
	if s.ByNumberFn != nil {
		return s.ByNumberFn(ctx, number)
	}
	return &model.OrderReceipt{Order: model.Order{ID: 1, Number: number, Status: model.OrderStatusPending}}, nil
}

// History returns configured entries.
func (s EngineFacadeStub) History(ctx context.Context, id int64) ([]model.OrderStatusHistoryEntry, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, id)
	}
	return []model.OrderStatusHistoryEntry{{OrderID: id, ToStatus: model.OrderStatusPending}}, nil
}

// UpdateStatus delegates or returns order in the requested status.
func (s EngineFacadeStub) UpdateStatus(ctx context.Context, id int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, id, to, actor, notes)
	}
	return &model.Order{ID: id, Status: to}, nil
}

// OverrideStatus delegates or returns order in the requested status.
func (s EngineFacadeStub) OverrideStatus(ctx context.Context, id int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, error) {
	if s.OverrideFn != nil {
		return s.OverrideFn(ctx, id, to, actor, notes)
	}
	return &model.Order{ID: id, Status: to}, nil
}

// AdjustStock delegates or echoes the request as a log entry.
func (s EngineFacadeStub) AdjustStock(ctx context.Context, req usecase.AdjustmentRequest) (*model.InventoryLogEntry, error) {
	if s.AdjustFn != nil {
		return s.AdjustFn(ctx, req)
	}
	return &model.InventoryLogEntry{ID: 1, VariantID: req.VariantID, ChangeType: req.Type, QuantityDelta: req.Delta}, nil
}

// InventoryLog returns configured entries.
func (s EngineFacadeStub) InventoryLog(ctx context.Context, variantID int64) ([]model.InventoryLogEntry, error) {
	if s.LogFn != nil {
		return s.LogFn(ctx, variantID)
	}
	return nil, nil
}

// HealthCheck returns HealthErr.
func (s EngineFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
