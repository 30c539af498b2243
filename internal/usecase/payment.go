package usecase

import (
	"context"
	"log/slog"

	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

// PaymentUseCase keeps payment transactions and order payment status in step.
type PaymentUseCase struct {
	uow    repository.UnitOfWork
	repos  repository.Factory
	logger *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(uow repository.UnitOfWork, repos repository.Factory, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{uow: uow, repos: repos, logger: logger}
}

// AttachReference stores the provider reference on the transaction and on the order.
func (u *PaymentUseCase) AttachReference(ctx context.Context, txn *model.PaymentTransaction, reference string) error {
	err := u.uow.WithinTransaction(ctx, func(repos repository.Factory) error {
		if err := repos.Payments().AttachReference(ctx, txn.ID, reference); err != nil {
			return err
		}
		return repos.Orders().UpdatePayment(ctx, txn.OrderID, txn.Status, &reference)
	})
	if err != nil {
		return err
	}
	txn.Reference = &reference
	return nil
}

// SelectPendingForVerification claims pending transactions that have a provider reference.
func (u *PaymentUseCase) SelectPendingForVerification(ctx context.Context, limit int) ([]model.PaymentTransaction, error) {
	return u.repos.Payments().SelectPendingForVerification(ctx, limit)
}

// ApplyVerification records the provider's answer. Non-final answers leave both rows untouched.
func (u *PaymentUseCase) ApplyVerification(ctx context.Context, txn model.PaymentTransaction, v model.PaymentVerification) (bool, error) {
	if !v.Status.Final() || v.Status == txn.Status {
		return false, nil
	}
	err := u.uow.WithinTransaction(ctx, func(repos repository.Factory) error {
		if err := repos.Payments().UpdateStatus(ctx, txn.ID, v.Status, v.Payload); err != nil {
			return err
		}
		return repos.Orders().UpdatePayment(ctx, txn.OrderID, v.Status, nil)
	})
	if err != nil {
		return false, err
	}
	u.logger.Info("payment verified",
		slog.String("order_number", txn.OrderNumber),
		slog.String("status", string(v.Status)),
	)
	return true, nil
}
