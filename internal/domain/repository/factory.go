package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Customers() CustomerRepository
	Variants() VariantRepository
	Orders() OrderRepository
	History() StatusHistoryRepository
	Inventory() InventoryLogRepository
	Payments() PaymentRepository
}

// UnitOfWork runs fn with repositories bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(Factory) error) error
}
