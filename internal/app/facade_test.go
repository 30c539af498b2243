package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/orderengine/internal/config"
	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	testhelpers "github.com/polkiloo/orderengine/internal/test"
	"github.com/polkiloo/orderengine/internal/usecase"
)

type facadeFixture struct {
	facade   *OrderFacade
	store    *testhelpers.Store
	provider *testhelpers.PaymentProviderStub
	events   *testhelpers.EventRecorder
	variant  int64
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFacadeFixture(t *testing.T) *facadeFixture {
	t.Helper()
	cfg := &config.Config{
		OrderNumberPrefix:   "ORD",
		OrderNumberAttempts: 20,
		OrderTxTimeout:      5 * time.Second,
		PhonePattern:        `^(\+243|0)[89]\d{8}$`,
		PaymentProviderName: "external",
	}
	logger := discardLogger()
	store := testhelpers.NewStore()
	resolver, err := usecase.NewCustomerResolver(cfg)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	fees := usecase.NewDeliveryFeeCalculator()
	provider := &testhelpers.PaymentProviderStub{}
	events := &testhelpers.EventRecorder{}

	facade := NewOrderFacade(
		usecase.NewOrderCoordinator(store, resolver, usecase.NewStockValidator(), fees, usecase.NewOrderNumberGenerator(cfg), cfg, logger),
		usecase.NewStatusMachine(store, logger),
		usecase.NewOrderUseCase(store, fees),
		usecase.NewInventoryUseCase(store, store, logger),
		usecase.NewPaymentUseCase(store, store, logger),
		provider,
		events,
		store,
		logger,
	)

	product := store.AddProduct("Wrap dress", "40.00", true)
	variant := store.AddVariant(product, "DRESS-S", 5, "0", true)
	return &facadeFixture{facade: facade, store: store, provider: provider, events: events, variant: variant}
}

func (f *facadeFixture) request(method model.PaymentMethod) usecase.CreateOrderRequest {
	return usecase.CreateOrderRequest{
		Guest:          &usecase.GuestInfo{FirstName: "Neema", LastName: "M", Phone: "0991234567"},
		Items:          []usecase.LineRequest{{VariantID: f.variant, Quantity: 1}},
		DeliveryMethod: model.DeliveryMethodPickup,
		PaymentMethod:  method,
	}
}

func TestCreateOrderCashSkipsProvider(t *testing.T) {
	f := newFacadeFixture(t)
	receipt, err := f.facade.CreateOrder(context.Background(), f.request(model.PaymentMethodCashOnDelivery), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(f.provider.Initiated) != 0 {
		t.Fatalf("cash order must not reach provider: %v", f.provider.Initiated)
	}
	if len(f.events.Events) != 1 || f.events.Events[0].Type != "order.created" || f.events.Events[0].Order.Number != receipt.Order.Number {
		t.Fatalf("unexpected events %+v", f.events.Events)
	}
}

func TestCreateOrderInitiatesProviderPayment(t *testing.T) {
	f := newFacadeFixture(t)
	receipt, err := f.facade.CreateOrder(context.Background(), f.request(model.PaymentMethodMobileMoney), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := "REF-" + receipt.Order.Number
	if receipt.Transaction.Reference == nil || *receipt.Transaction.Reference != want {
		t.Fatalf("expected reference %s on transaction, got %v", want, receipt.Transaction.Reference)
	}
	dump := f.store.Dump()
	stored := dump.Orders[receipt.Order.ID]
	if stored.PaymentReference == nil || *stored.PaymentReference != want {
		t.Fatalf("expected stored reference %s, got %v", want, stored.PaymentReference)
	}
	pending, err := f.facade.PaymentsForVerification(context.Background(), 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one payment to verify, got %v err=%v", pending, err)
	}
}

func TestCreateOrderKeepsClientReference(t *testing.T) {
	f := newFacadeFixture(t)
	req := f.request(model.PaymentMethodCard)
	ref := "CARD-CLIENT"
	req.PaymentReference = &ref
	if _, err := f.facade.CreateOrder(context.Background(), req, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(f.provider.Initiated) != 0 {
		t.Fatal("provider must not be called when reference was supplied")
	}
}

func TestCreateOrderSurvivesProviderFailure(t *testing.T) {
	f := newFacadeFixture(t)
	f.provider.InitiateFn = func(context.Context, model.Order) (string, error) {
		return "", errors.New("provider down")
	}
	receipt, err := f.facade.CreateOrder(context.Background(), f.request(model.PaymentMethodCard), nil)
	if err != nil {
		t.Fatalf("order must survive provider failure: %v", err)
	}
	if receipt.Transaction.Reference != nil {
		t.Fatalf("unexpected reference %v", *receipt.Transaction.Reference)
	}
	if _, ok := f.store.Dump().Orders[receipt.Order.ID]; !ok {
		t.Fatal("order must stay committed")
	}
	if len(f.events.Events) != 1 {
		t.Fatal("order.created must still be published")
	}
}

func TestCreateOrderDisabledProvider(t *testing.T) {
	f := newFacadeFixture(t)
	f.provider.Disabled = true
	if _, err := f.facade.CreateOrder(context.Background(), f.request(model.PaymentMethodCard), nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(f.provider.Initiated) != 0 {
		t.Fatal("disabled provider must not be called")
	}
}

func TestCreateOrderFailurePublishesNothing(t *testing.T) {
	f := newFacadeFixture(t)
	req := f.request(model.PaymentMethodCashOnDelivery)
	req.Items[0].Quantity = 50
	if _, err := f.facade.CreateOrder(context.Background(), req, nil); !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if len(f.events.Events) != 0 {
		t.Fatalf("unexpected events %+v", f.events.Events)
	}
}

func TestStatusChangesPublishEvents(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	receipt, err := f.facade.CreateOrder(ctx, f.request(model.PaymentMethodCashOnDelivery), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := receipt.Order.ID
	actor := int64(3)

	if _, err := f.facade.UpdateStatus(ctx, id, model.OrderStatusConfirmed, &actor, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.facade.UpdateStatus(ctx, id, model.OrderStatusConfirmed, &actor, ""); err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	if _, err := f.facade.UpdateStatus(ctx, id, model.OrderStatusDelivered, &actor, ""); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := f.facade.OverrideStatus(ctx, id, model.OrderStatusDelivered, &actor, "paid at counter"); err != nil {
		t.Fatalf("override: %v", err)
	}

	if len(f.events.Events) != 3 {
		t.Fatalf("expected created + 2 status events, got %+v", f.events.Events)
	}
	confirmed, overridden := f.events.Events[1], f.events.Events[2]
	if confirmed.From != model.OrderStatusPending || confirmed.Order.Status != model.OrderStatusConfirmed || confirmed.Override {
		t.Fatalf("unexpected confirm event %+v", confirmed)
	}
	if overridden.From != model.OrderStatusConfirmed || overridden.Order.Status != model.OrderStatusDelivered || !overridden.Override {
		t.Fatalf("unexpected override event %+v", overridden)
	}

	history, err := f.facade.History(ctx, id)
	if err != nil || len(history) != 3 {
		t.Fatalf("expected 3 history entries, got %d err=%v", len(history), err)
	}
}

func TestQueriesAndInventory(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	receipt, err := f.facade.CreateOrder(ctx, f.request(model.PaymentMethodCashOnDelivery), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := f.facade.Order(ctx, receipt.Order.ID)
	if err != nil || byID.Order.Number != receipt.Order.Number || len(byID.Items) != 1 {
		t.Fatalf("unexpected order %+v err=%v", byID, err)
	}
	byNumber, err := f.facade.OrderByNumber(ctx, receipt.Order.Number)
	if err != nil || byNumber.Order.ID != receipt.Order.ID {
		t.Fatalf("unexpected order %+v err=%v", byNumber, err)
	}

	actor := int64(4)
	entry, err := f.facade.AdjustStock(ctx, usecase.AdjustmentRequest{VariantID: f.variant, Delta: 1, Type: model.InventoryChangeReturn, Reason: "cancelled order", ActorID: &actor, OrderID: &receipt.Order.ID})
	if err != nil || entry.NewQuantity != 5 {
		t.Fatalf("unexpected adjustment %+v err=%v", entry, err)
	}
	log, err := f.facade.InventoryLog(ctx, f.variant)
	if err != nil || len(log) != 2 || log[0].ChangeType != model.InventoryChangeSale {
		t.Fatalf("unexpected log %+v err=%v", log, err)
	}
}

func TestPaymentVerificationFlow(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	receipt, err := f.facade.CreateOrder(ctx, f.request(model.PaymentMethodMobileMoney), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pending, err := f.facade.PaymentsForVerification(ctx, 5)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending payment, got %v err=%v", pending, err)
	}
	v, err := f.facade.VerifyPayment(ctx, *pending[0].Reference)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := f.facade.ApplyPaymentVerification(ctx, pending[0], *v); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := f.store.Dump().Orders[receipt.Order.ID].PaymentStatus; got != model.PaymentStatusCompleted {
		t.Fatalf("expected completed payment status, got %s", got)
	}
}

func TestHealthCheck(t *testing.T) {
	f := newFacadeFixture(t)
	if err := f.facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.store.HealthErr = errors.New("down")
	if err := f.facade.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health error")
	}
}
