package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

// AppliedVerification stores ApplyPaymentVerification invocations.
type AppliedVerification struct {
	Transaction  model.PaymentTransaction
	Verification model.PaymentVerification
}

// WorkerFacadeStub mimics worker interactions with the order facade.
type WorkerFacadeStub struct {
	Batches    [][]model.PaymentTransaction
	BatchFn    func(context.Context, int) ([]model.PaymentTransaction, error)
	VerifyFn   func(context.Context, string) (*model.PaymentVerification, error)
	ApplyFn    func(context.Context, model.PaymentTransaction, model.PaymentVerification) error
	Applied    []AppliedVerification
	mu         sync.Mutex
	batchCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PaymentsForVerification returns batches from configured queue.
func (s *WorkerFacadeStub) PaymentsForVerification(ctx context.Context, limit int) ([]model.PaymentTransaction, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// VerifyPayment returns configured verification or COMPLETED.
func (s *WorkerFacadeStub) VerifyPayment(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &model.PaymentVerification{Reference: reference, Status: model.PaymentStatusCompleted, Payload: []byte(`{}`)}, nil
}

// ApplyPaymentVerification records application requests.
func (s *WorkerFacadeStub) ApplyPaymentVerification(ctx context.Context, txn model.PaymentTransaction, v model.PaymentVerification) error {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, txn, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Applied = append(s.Applied, AppliedVerification{Transaction: txn, Verification: v})
	return nil
}

// PaymentProviderStub simulates the external payment provider.
type PaymentProviderStub struct {
	Disabled   bool
	InitiateFn func(context.Context, model.Order) (string, error)
	VerifyFn   func(context.Context, string) (*model.PaymentVerification, error)
	Initiated  []string
	mu         sync.Mutex
}

// Enabled reports false when Disabled is set.
func (s *PaymentProviderStub) Enabled() bool { return !s.Disabled }

// Initiate records the order number and returns a reference derived from it.
func (s *PaymentProviderStub) Initiate(ctx context.Context, order model.Order) (string, error) {
	s.mu.Lock()
	s.Initiated = append(s.Initiated, order.Number)
	s.mu.Unlock()
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, order)
	}
	return "REF-" + order.Number, nil
}

// Verify returns configured verification or COMPLETED.
func (s *PaymentProviderStub) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &model.PaymentVerification{Reference: reference, Status: model.PaymentStatusCompleted}, nil
}

// PublishedEvent is one event captured by EventRecorder.
type PublishedEvent struct {
	Type     string
	Order    model.Order
	From     model.OrderStatus
	Override bool
}

// EventRecorder captures published order events.
type EventRecorder struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// OrderCreated records order.created.
func (r *EventRecorder) OrderCreated(ctx context.Context, order model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, PublishedEvent{Type: "order.created", Order: order})
}

// OrderStatusChanged records order.status_changed.
func (r *EventRecorder) OrderStatusChanged(ctx context.Context, order model.Order, from model.OrderStatus, override bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, PublishedEvent{Type: "order.status_changed", Order: order, From: from, Override: override})
}
