package repository

import (
	"context"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

// PaymentRepository manages payment transactions.
type PaymentRepository interface {
	Create(ctx context.Context, txn *model.PaymentTransaction) error
	GetByOrder(ctx context.Context, orderID int64) (*model.PaymentTransaction, error)
	AttachReference(ctx context.Context, id int64, reference string) error
	SelectPendingForVerification(ctx context.Context, limit int) ([]model.PaymentTransaction, error)
	UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus, verification []byte) error
}
