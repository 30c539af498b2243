package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

// StatusMachine applies order status transitions together with their history entries.
type StatusMachine struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewStatusMachine constructs StatusMachine.
func NewStatusMachine(uow repository.UnitOfWork, logger *slog.Logger) *StatusMachine {
	return &StatusMachine{uow: uow, logger: logger}
}

// Transition moves the order to status to if the workflow allows it.
// The previous status is returned when the order changed; requesting the
// current status is a no-op and returns a nil previous status.
func (m *StatusMachine) Transition(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, *model.OrderStatus, error) {
	return m.apply(ctx, orderID, to, actor, notes, false)
}

// ForceTransition moves the order to status to regardless of the workflow.
// It needs an actor and marks the history entry as an override.
func (m *StatusMachine) ForceTransition(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, *model.OrderStatus, error) {
	if actor == nil {
		return nil, nil, domainErrors.ErrActorRequired
	}
	return m.apply(ctx, orderID, to, actor, notes, true)
}

func (m *StatusMachine) apply(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string, force bool) (*model.Order, *model.OrderStatus, error) {
	if !to.Valid() {
		return nil, nil, domainErrors.ErrInvalidStatus
	}

	var (
		result *model.Order
		from   *model.OrderStatus
	)
	err := m.uow.WithinTransaction(ctx, func(repos repository.Factory) error {
		order, err := repos.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == to {
			result = order
			return nil
		}
		if !force && !order.Status.CanTransitionTo(to) {
			return &domainErrors.TransitionError{From: order.Status, To: to}
		}

		updated, err := repos.Orders().UpdateStatus(ctx, orderID, to)
		if err != nil {
			return err
		}
		prev := order.Status
		if err := repos.History().Append(ctx, &model.OrderStatusHistoryEntry{
			OrderID:    orderID,
			FromStatus: &prev,
			ToStatus:   to,
			ActorID:    actor,
			Notes:      notes,
			Override:   force,
		}); err != nil {
			return err
		}
		result, from = updated, &prev
		return nil
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, nil, domainErrors.ErrNotFound
		}
		return nil, nil, abort(err)
	}

	if force && from != nil {
		m.logger.Warn("order status overridden",
			slog.Int64("order_id", orderID),
			slog.String("from", string(*from)),
			slog.String("to", string(to)),
			slog.Int64("actor_id", *actor),
		)
	}
	return result, from, nil
}
