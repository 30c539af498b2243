package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/orderengine/internal/config"
	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

const cashProvider = "cash"

// CreateOrderRequest is a structurally valid order submission.
type CreateOrderRequest struct {
	CustomerID       *int64
	Guest            *GuestInfo
	SaveCustomerInfo bool
	StaffActor       bool
	Items            []LineRequest
	DeliveryMethod   model.DeliveryMethod
	DeliveryAddress  *model.DeliveryAddress
	PaymentMethod    model.PaymentMethod
	PaymentReference *string
	Notes            *string
	Source           model.OrderSource
}

func (r *CreateOrderRequest) customerInput() CustomerInput {
	return CustomerInput{CustomerID: r.CustomerID, Guest: r.Guest, SaveCustomerInfo: r.SaveCustomerInfo, StaffActor: r.StaffActor}
}

// OrderCoordinator creates orders atomically: customer, stock, totals, number, rows and payment.
type OrderCoordinator struct {
	uow       repository.UnitOfWork
	customers *CustomerResolver
	stock     *StockValidator
	fees      *DeliveryFeeCalculator
	numbers   *OrderNumberGenerator
	logger    *slog.Logger
	timeout   time.Duration
	attempts  int
	provider  string
	now       func() time.Time
}

// NewOrderCoordinator constructs OrderCoordinator.
func NewOrderCoordinator(
	uow repository.UnitOfWork,
	customers *CustomerResolver,
	stock *StockValidator,
	fees *DeliveryFeeCalculator,
	numbers *OrderNumberGenerator,
	cfg *config.Config,
	logger *slog.Logger,
) *OrderCoordinator {
	return &OrderCoordinator{
		uow:       uow,
		customers: customers,
		stock:     stock,
		fees:      fees,
		numbers:   numbers,
		logger:    logger,
		timeout:   cfg.OrderTxTimeout,
		attempts:  cfg.OrderNumberAttempts,
		provider:  cfg.PaymentProviderName,
		now:       time.Now,
	}
}

// CreateOrder runs the whole order creation in one transaction bounded by the configured timeout.
// Business failures are returned as is. Anything else is reported as AbortedError after rollback.
func (c *OrderCoordinator) CreateOrder(ctx context.Context, req CreateOrderRequest, actor *int64) (*model.OrderReceipt, error) {
	if err := c.precheck(&req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var receipt *model.OrderReceipt
	err := c.uow.WithinTransaction(ctx, func(repos repository.Factory) error {
		var err error
		receipt, err = c.create(ctx, repos, &req, actor)
		return err
	})
	if err != nil {
		err = abort(err)
		c.logger.Warn("order creation failed",
			slog.String("code", domainErrors.Code(err)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("order created",
		slog.String("number", receipt.Order.Number),
		slog.Int64("order_id", receipt.Order.ID),
		slog.String("total", receipt.Order.Total.StringFixed(2)),
		slog.Int("items", len(receipt.Items)),
	)
	return receipt, nil
}

// precheck rejects requests that would fail before the first write.
func (c *OrderCoordinator) precheck(req *CreateOrderRequest) error {
	if err := c.customers.Check(req.customerInput()); err != nil {
		return err
	}
	if len(req.Items) == 0 {
		return domainErrors.ErrEmptyOrder
	}
	if !req.DeliveryMethod.Valid() {
		return domainErrors.ErrInvalidDeliveryMethod
	}
	if !req.PaymentMethod.Valid() {
		return domainErrors.ErrInvalidPaymentMethod
	}
	if req.Source == "" {
		req.Source = model.OrderSourceWeb
	}
	return nil
}

func (c *OrderCoordinator) create(ctx context.Context, repos repository.Factory, req *CreateOrderRequest, actor *int64) (*model.OrderReceipt, error) {
	customerID, err := c.customers.Resolve(ctx, repos.Customers(), req.customerInput(), actor)
	if err != nil {
		return nil, err
	}

	check, err := c.stock.Validate(ctx, repos.Variants(), req.Items)
	if err != nil {
		return nil, err
	}
	subtotal := check.Subtotal()

	order := &model.Order{
		CustomerID:       customerID,
		Status:           model.OrderStatusPending,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    model.PaymentStatusPending,
		PaymentReference: req.PaymentReference,
		DeliveryMethod:   req.DeliveryMethod,
		Subtotal:         subtotal,
		Source:           req.Source,
		Notes:            req.Notes,
	}

	var fee model.DeliveryFee
	if req.DeliveryMethod == model.DeliveryMethodHome {
		if req.DeliveryAddress == nil || strings.TrimSpace(req.DeliveryAddress.FullAddress) == "" {
			return nil, domainErrors.ErrMissingDeliveryAddress
		}
		addr := model.DeliveryAddress{
			FullAddress:  strings.TrimSpace(req.DeliveryAddress.FullAddress),
			Zone:         req.DeliveryAddress.Zone,
			Instructions: strings.TrimSpace(req.DeliveryAddress.Instructions),
		}
		zone := normalizeZone(addr.Zone)
		if fee, err = c.fees.CalculateFee(&zone, subtotal); err != nil {
			return nil, err
		}
		order.DeliveryAddress = &addr.FullAddress
		if zone != "" {
			order.DeliveryZone = &zone
		}
		if addr.Instructions != "" {
			order.DeliveryInstructions = &addr.Instructions
		}
	} else {
		fee = c.fees.PickupFee()
	}
	order.DeliveryFee = fee.Fee
	order.Total = subtotal.Add(fee.Fee)

	if order.Number, err = c.reserveNumber(ctx, repos.Orders()); err != nil {
		return nil, err
	}
	if err := repos.Orders().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := repos.History().Append(ctx, &model.OrderStatusHistoryEntry{
		OrderID:  order.ID,
		ToStatus: model.OrderStatusPending,
		ActorID:  actor,
		Notes:    "order created",
	}); err != nil {
		return nil, fmt.Errorf("insert status history: %w", err)
	}

	items := make([]model.OrderLineItem, 0, len(check.Lines))
	for _, line := range check.Lines {
		item, err := c.sell(ctx, repos, order, line, actor)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	txn := &model.PaymentTransaction{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Amount:      order.Total,
		Method:      order.PaymentMethod,
		Provider:    c.providerFor(order.PaymentMethod),
		Reference:   req.PaymentReference,
		Status:      model.PaymentStatusPending,
	}
	if err := repos.Payments().Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("insert payment transaction: %w", err)
	}

	return &model.OrderReceipt{Order: *order, Items: items, Transaction: txn, Delivery: fee}, nil
}

// sell writes one line item, takes its stock and logs the SALE.
func (c *OrderCoordinator) sell(ctx context.Context, repos repository.Factory, order *model.Order, line ReservedLine, actor *int64) (*model.OrderLineItem, error) {
	v := line.Snapshot.Variant
	item := &model.OrderLineItem{
		OrderID:         order.ID,
		ProductID:       v.ProductID,
		VariantID:       v.ID,
		Quantity:        line.Quantity,
		PriceAtPurchase: line.UnitPrice(),
		ProductName:     line.Snapshot.ProductName,
		Size:            v.Size,
		Color:           v.Color,
		SKU:             v.SKU,
	}
	if err := repos.Orders().AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("insert order item: %w", err)
	}

	change, err := repos.Variants().AdjustStock(ctx, v.ID, -line.Quantity)
	if err != nil {
		return nil, err
	}

	orderID := order.ID
	if err := repos.Inventory().Append(ctx, &model.InventoryLogEntry{
		VariantID:        v.ID,
		ChangeType:       model.InventoryChangeSale,
		QuantityDelta:    -line.Quantity,
		PreviousQuantity: change.Previous,
		NewQuantity:      change.New,
		Reason:           "order " + order.Number,
		ActorID:          actor,
		OrderID:          &orderID,
	}); err != nil {
		return nil, fmt.Errorf("insert inventory log: %w", err)
	}
	return item, nil
}

// reserveNumber regenerates candidates until one is free, up to the configured attempts.
func (c *OrderCoordinator) reserveNumber(ctx context.Context, orders repository.OrderRepository) (string, error) {
	now := c.now()
	for attempt := 0; attempt < c.attempts; attempt++ {
		number := c.numbers.Generate(now)
		free, err := orders.ReserveNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("reserve order number: %w", err)
		}
		if free {
			return number, nil
		}
	}
	c.logger.Warn("order number space exhausted",
		slog.String("day", now.UTC().Format("2006-01-02")),
		slog.Int("attempts", c.attempts),
	)
	return "", domainErrors.ErrOrderNumberExhausted
}

func (c *OrderCoordinator) providerFor(method model.PaymentMethod) string {
	if method.RequiresProvider() {
		return c.provider
	}
	return cashProvider
}

// abort passes business failures through and wraps everything else in AbortedError.
// Deadline and unique-key races are marked retryable.
func abort(err error) error {
	var aborted *domainErrors.AbortedError
	if errors.As(err, &aborted) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domainErrors.ErrAlreadyExists):
		return &domainErrors.AbortedError{Cause: err, Retryable: true}
	case errors.Is(err, domainErrors.ErrNotFound):
		return &domainErrors.AbortedError{Cause: err}
	case domainErrors.IsBusiness(err):
		return err
	}
	return &domainErrors.AbortedError{Cause: err}
}
