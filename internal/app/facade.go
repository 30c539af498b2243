package app

import (
	"context"
	"log/slog"

	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/usecase"
)

// PaymentProvider is the external payment system.
type PaymentProvider interface {
	Enabled() bool
	Initiate(ctx context.Context, order model.Order) (string, error)
	Verify(ctx context.Context, reference string) (*model.PaymentVerification, error)
}

// EventPublisher receives order lifecycle notifications after commit.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order model.Order)
	OrderStatusChanged(ctx context.Context, order model.Order, from model.OrderStatus, override bool)
}

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// OrderFacade is the single entry point for transport and workers.
type OrderFacade struct {
	coordinator *usecase.OrderCoordinator
	status      *usecase.StatusMachine
	orders      *usecase.OrderUseCase
	inventory   *usecase.InventoryUseCase
	payments    *usecase.PaymentUseCase
	provider    PaymentProvider
	events      EventPublisher
	health      HealthChecker
	logger      *slog.Logger
}

func NewOrderFacade(
	coordinator *usecase.OrderCoordinator,
	status *usecase.StatusMachine,
	orders *usecase.OrderUseCase,
	inventory *usecase.InventoryUseCase,
	payments *usecase.PaymentUseCase,
	provider PaymentProvider,
	events EventPublisher,
	health HealthChecker,
	logger *slog.Logger,
) *OrderFacade {
	return &OrderFacade{
		coordinator: coordinator,
		status:      status,
		orders:      orders,
		inventory:   inventory,
		payments:    payments,
		provider:    provider,
		events:      events,
		health:      health,
		logger:      logger,
	}
}

// CreateOrder runs the order transaction, then starts the provider payment and publishes order.created.
// Neither follow-up can undo a committed order.
func (f *OrderFacade) CreateOrder(ctx context.Context, req usecase.CreateOrderRequest, actor *int64) (*model.OrderReceipt, error) {
	receipt, err := f.coordinator.CreateOrder(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	f.initiatePayment(ctx, receipt)
	f.events.OrderCreated(ctx, receipt.Order)
	return receipt, nil
}

func (f *OrderFacade) initiatePayment(ctx context.Context, receipt *model.OrderReceipt) {
	txn := receipt.Transaction
	if txn == nil || txn.Reference != nil || !txn.Method.RequiresProvider() || !f.provider.Enabled() {
		return
	}
	reference, err := f.provider.Initiate(ctx, receipt.Order)
	if err != nil {
		f.logger.Error("payment initiation failed",
			slog.String("order_number", receipt.Order.Number),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := f.payments.AttachReference(ctx, txn, reference); err != nil {
		f.logger.Error("store payment reference failed",
			slog.String("order_number", receipt.Order.Number),
			slog.String("error", err.Error()),
		)
		return
	}
	receipt.Order.PaymentReference = &reference
}

func (f *OrderFacade) UpdateStatus(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, error) {
	order, from, err := f.status.Transition(ctx, orderID, to, actor, notes)
	if err != nil {
		return nil, err
	}
	if from != nil {
		f.events.OrderStatusChanged(ctx, *order, *from, false)
	}
	return order, nil
}

func (f *OrderFacade) OverrideStatus(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, error) {
	order, from, err := f.status.ForceTransition(ctx, orderID, to, actor, notes)
	if err != nil {
		return nil, err
	}
	if from != nil {
		f.events.OrderStatusChanged(ctx, *order, *from, true)
	}
	return order, nil
}

func (f *OrderFacade) Order(ctx context.Context, id int64) (*model.OrderReceipt, error) {
	return f.orders.Get(ctx, id)
}

func (f *OrderFacade) OrderByNumber(ctx context.Context, number string) (*model.OrderReceipt, error) {
	return f.orders.GetByNumber(ctx, number)
}

func (f *OrderFacade) History(ctx context.Context, id int64) ([]model.OrderStatusHistoryEntry, error) {
	return f.orders.History(ctx, id)
}

func (f *OrderFacade) AdjustStock(ctx context.Context, req usecase.AdjustmentRequest) (*model.InventoryLogEntry, error) {
	return f.inventory.Adjust(ctx, req)
}

func (f *OrderFacade) InventoryLog(ctx context.Context, variantID int64) ([]model.InventoryLogEntry, error) {
	return f.inventory.Log(ctx, variantID)
}

func (f *OrderFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *OrderFacade) PaymentsForVerification(ctx context.Context, limit int) ([]model.PaymentTransaction, error) {
	return f.payments.SelectPendingForVerification(ctx, limit)
}

func (f *OrderFacade) VerifyPayment(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	return f.provider.Verify(ctx, reference)
}

func (f *OrderFacade) ApplyPaymentVerification(ctx context.Context, txn model.PaymentTransaction, v model.PaymentVerification) error {
	_, err := f.payments.ApplyVerification(ctx, txn, v)
	return err
}
