package usecase

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/orderengine/internal/config"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/test"
)

func testConfig() *config.Config {
	return &config.Config{
		OrderNumberPrefix:   "ORD",
		OrderNumberAttempts: 20,
		OrderTxTimeout:      5 * time.Second,
		PhonePattern:        `^(\+243|0)[89]\d{8}$`,
		PaymentProviderName: "external",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type fixture struct {
	store       *test.Store
	coordinator *OrderCoordinator
	status      *StatusMachine
	inventory   *InventoryUseCase
	orders      *OrderUseCase
	payments    *PaymentUseCase
	tshirt      int64
	cap         int64
	customer    int64
	owner       *int64
}

// newFixture seeds a T-shirt variant at 20.00+2.50 with stock 10, a cap at 30.00 with stock 1
// and one registered customer linked to user 501 (owner).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	logger := discardLogger()
	store := test.NewStore()

	resolver, err := NewCustomerResolver(cfg)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	fees := NewDeliveryFeeCalculator()
	f := &fixture{
		store:       store,
		coordinator: NewOrderCoordinator(store, resolver, NewStockValidator(), fees, NewOrderNumberGenerator(cfg), cfg, logger),
		status:      NewStatusMachine(store, logger),
		inventory:   NewInventoryUseCase(store, store, logger),
		orders:      NewOrderUseCase(store, fees),
		payments:    NewPaymentUseCase(store, store, logger),
	}

	shirt := store.AddProduct("T-shirt", "20.00", true)
	f.tshirt = store.AddVariant(shirt, "TSHIRT-M-RED", 10, "2.50", true)
	capProduct := store.AddProduct("Cap", "30.00", true)
	f.cap = store.AddVariant(capProduct, "CAP-OS", 1, "0", true)
	f.owner = int64Ptr(501)
	f.customer = store.AddCustomer(model.Customer{UserID: f.owner, FirstName: "Amani", LastName: "Kabila", Phone: "0812345678"})
	return f
}

func int64Ptr(v int64) *int64 {
	return &v
}

func strPtr(v string) *string {
	return &v
}
