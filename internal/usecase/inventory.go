package usecase

import (
	"context"
	"log/slog"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

// AdjustmentRequest describes a manual stock change.
type AdjustmentRequest struct {
	VariantID int64
	Delta     int
	Type      model.InventoryChangeType
	Reason    string
	ActorID   *int64
	OrderID   *int64
}

// InventoryUseCase applies stock changes outside of order creation.
type InventoryUseCase struct {
	uow    repository.UnitOfWork
	repos  repository.Factory
	logger *slog.Logger
}

// NewInventoryUseCase constructs InventoryUseCase.
func NewInventoryUseCase(uow repository.UnitOfWork, repos repository.Factory, logger *slog.Logger) *InventoryUseCase {
	return &InventoryUseCase{uow: uow, repos: repos, logger: logger}
}

// Adjust changes stock of one variant and records it in the inventory log.
// SALE entries belong to order creation and are rejected here.
func (u *InventoryUseCase) Adjust(ctx context.Context, req AdjustmentRequest) (*model.InventoryLogEntry, error) {
	if err := validateAdjustment(req); err != nil {
		return nil, err
	}

	var entry *model.InventoryLogEntry
	err := u.uow.WithinTransaction(ctx, func(repos repository.Factory) error {
		change, err := repos.Variants().AdjustStock(ctx, req.VariantID, req.Delta)
		if err != nil {
			return err
		}
		entry = &model.InventoryLogEntry{
			VariantID:        req.VariantID,
			ChangeType:       req.Type,
			QuantityDelta:    req.Delta,
			PreviousQuantity: change.Previous,
			NewQuantity:      change.New,
			Reason:           req.Reason,
			ActorID:          req.ActorID,
			OrderID:          req.OrderID,
		}
		return repos.Inventory().Append(ctx, entry)
	})
	if err != nil {
		return nil, abort(err)
	}

	u.logger.Info("stock adjusted",
		slog.Int64("variant_id", req.VariantID),
		slog.String("type", string(req.Type)),
		slog.Int("delta", req.Delta),
		slog.Int("new_quantity", entry.NewQuantity),
	)
	return entry, nil
}

// Log returns the inventory history of a variant, oldest first.
func (u *InventoryUseCase) Log(ctx context.Context, variantID int64) ([]model.InventoryLogEntry, error) {
	return u.repos.Inventory().ListByVariant(ctx, variantID)
}

func validateAdjustment(req AdjustmentRequest) error {
	switch req.Type {
	case model.InventoryChangeRestock, model.InventoryChangeReturn:
		if req.Delta <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
	case model.InventoryChangeAdjustment:
		if req.Delta == 0 {
			return domainErrors.ErrInvalidQuantity
		}
	default:
		return domainErrors.ErrInvalidChangeType
	}
	return nil
}
