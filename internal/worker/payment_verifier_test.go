package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/orderengine/internal/adapter/payment"
	"github.com/polkiloo/orderengine/internal/domain/model"
	testhelpers "github.com/polkiloo/orderengine/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func ref(s string) *string { return &s }

func waitForApplied(t *testing.T, facade *testhelpers.WorkerFacadeStub, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		facade.Lock()
		applied := len(facade.Applied) > 0
		facade.Unlock()
		if applied {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for payment verification")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestNewPaymentVerifierDefaults(t *testing.T) {
	proc := NewPaymentVerifier(&testhelpers.WorkerFacadeStub{}, time.Second, 0, 0, discardLogger())
	if proc.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", proc.batchSize)
	}
	if proc.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", proc.workers)
	}
}

func TestPaymentVerifierAppliesVerification(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.PaymentTransaction{{{ID: 1, OrderNumber: "ORD-1", Reference: ref("MM-1")}}},
	}
	proc := NewPaymentVerifier(facade, 10*time.Millisecond, 1, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)
	waitForApplied(t, facade, 500*time.Millisecond)
	proc.Stop()

	facade.Lock()
	defer facade.Unlock()
	if facade.Applied[0].Transaction.ID != 1 {
		t.Fatalf("unexpected transaction %+v", facade.Applied[0])
	}
	if facade.Applied[0].Verification.Status != model.PaymentStatusCompleted {
		t.Fatalf("expected completed status, got %v", facade.Applied[0].Verification.Status)
	}
}

func TestPaymentVerifierSkipsMissingReference(t *testing.T) {
	var verified int32
	facade := &testhelpers.WorkerFacadeStub{
		VerifyFn: func(context.Context, string) (*model.PaymentVerification, error) {
			atomic.AddInt32(&verified, 1)
			return nil, errors.New("unexpected")
		},
	}
	proc := NewPaymentVerifier(facade, time.Second, 1, 1, discardLogger())
	proc.handlePayment(context.Background(), model.PaymentTransaction{ID: 1})
	if atomic.LoadInt32(&verified) != 0 {
		t.Fatal("transaction without reference must not be verified")
	}
}

func TestPaymentVerifierHandlesRateLimiting(t *testing.T) {
	attempts := int32(0)
	txn := model.PaymentTransaction{ID: 1, OrderNumber: "ORD-1", Reference: ref("MM-1")}
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.PaymentTransaction{{txn}, {txn}},
		VerifyFn: func(ctx context.Context, reference string) (*model.PaymentVerification, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return nil, payment.TooManyRequestsError{RetryAfter: 10 * time.Millisecond}
			}
			return &model.PaymentVerification{Reference: reference, Status: model.PaymentStatusFailed}, nil
		},
	}

	proc := NewPaymentVerifier(facade, 5*time.Millisecond, 1, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	proc.Start(ctx)
	waitForApplied(t, facade, time.Second)
	proc.Stop()

	if atomic.LoadInt32(&attempts) < 2 {
		t.Fatalf("expected retry after rate limit, got %d attempts", attempts)
	}
}

func TestPaymentVerifierLogsFailures(t *testing.T) {
	facade := &testhelpers.WorkerFacadeStub{
		VerifyFn: func(context.Context, string) (*model.PaymentVerification, error) {
			return nil, payment.ErrPaymentNotFound
		},
	}
	proc := NewPaymentVerifier(facade, time.Second, 1, 1, discardLogger())
	proc.handlePayment(context.Background(), model.PaymentTransaction{ID: 1, Reference: ref("gone")})

	facade.ApplyFn = func(context.Context, model.PaymentTransaction, model.PaymentVerification) error {
		return errors.New("db down")
	}
	facade.VerifyFn = nil
	proc.handlePayment(context.Background(), model.PaymentTransaction{ID: 2, Reference: ref("ok")})

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Applied) != 0 {
		t.Fatalf("expected no recorded applications, got %d", len(facade.Applied))
	}
}

func TestPaymentVerifierStopsOnFetchError(t *testing.T) {
	var calls int32
	facade := &testhelpers.WorkerFacadeStub{
		BatchFn: func(context.Context, int) ([]model.PaymentTransaction, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("db down")
		},
	}
	proc := NewPaymentVerifier(facade, 5*time.Millisecond, 1, 1, discardLogger())
	proc.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	proc.Stop()
	if atomic.LoadInt32(&calls) == 0 {
		t.Fatal("expected fetch attempts")
	}
}
