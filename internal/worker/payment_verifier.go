package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/orderengine/internal/adapter/payment"
	"github.com/polkiloo/orderengine/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the worker.
type PaymentFacade interface {
	PaymentsForVerification(ctx context.Context, limit int) ([]model.PaymentTransaction, error)
	VerifyPayment(ctx context.Context, reference string) (*model.PaymentVerification, error)
	ApplyPaymentVerification(ctx context.Context, txn model.PaymentTransaction, v model.PaymentVerification) error
}

// PaymentVerifier polls the payment provider and settles pending transactions concurrently.
type PaymentVerifier struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.PaymentTransaction
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentVerifier constructs payment verification worker pool.
func NewPaymentVerifier(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentVerifier {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentVerifier{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.PaymentTransaction, batchSize*workers),
	}
}

// Start launches background processing.
func (p *PaymentVerifier) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentVerifier) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentVerifier) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentVerifier) fetchAndDispatch(ctx context.Context) {
	txns, err := p.facade.PaymentsForVerification(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch payments for verification failed", slog.String("error", err.Error()))
		return
	}
	for _, txn := range txns {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- txn:
		}
	}
}

func (p *PaymentVerifier) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case txn, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handlePayment(ctx, txn)
		}
	}
}

func (p *PaymentVerifier) handlePayment(ctx context.Context, txn model.PaymentTransaction) {
	if txn.Reference == nil {
		return
	}
	result, err := p.facade.VerifyPayment(ctx, *txn.Reference)
	if err != nil {
		var limited payment.TooManyRequestsError
		switch {
		case errors.As(err, &limited):
			p.logger.Warn("payment provider rate limited", slog.Duration("retry_after", limited.RetryAfter))
			sleep(ctx, limited.RetryAfter)
		case errors.Is(err, payment.ErrPaymentNotFound):
			p.logger.Warn("payment unknown to provider", slog.String("order_number", txn.OrderNumber))
		default:
			p.logger.Error("payment verification failed", slog.String("order_number", txn.OrderNumber), slog.String("error", err.Error()))
		}
		return
	}

	if err := p.facade.ApplyPaymentVerification(ctx, txn, *result); err != nil {
		p.logger.Error("apply payment verification failed", slog.String("order_number", txn.OrderNumber), slog.String("error", err.Error()))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
