package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderengine/internal/config"
	"github.com/polkiloo/orderengine/internal/domain/model"
	testhelpers "github.com/polkiloo/orderengine/internal/test"
	"github.com/polkiloo/orderengine/internal/worker"
)

func newTestVerifier(facade worker.PaymentFacade) *worker.PaymentVerifier {
	return worker.NewPaymentVerifier(facade, 5*time.Millisecond, 1, 1, discardLogger())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewPaymentVerifierUsesConfig(t *testing.T) {
	proc := newPaymentVerifier(workerParams{
		Facade: &OrderFacade{},
		Config: &config.Config{PaymentPollInterval: 15 * time.Second, PaymentBatchSize: 3, PaymentWorkers: 4},
		Logger: discardLogger(),
	})
	if proc == nil {
		t.Fatal("expected payment verifier instance")
	}
}

func startStop(t *testing.T, provider PaymentProvider, facade *testhelpers.WorkerFacadeStub) {
	t.Helper()
	recorder := &testhelpers.LifecycleRecorder{}
	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)},
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		Worker:     newTestVerifier(facade),
		Provider:   provider,
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}
	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleRunsVerifierWhenProviderEnabled(t *testing.T) {
	calls := 0
	facade := &testhelpers.WorkerFacadeStub{}
	facade.BatchFn = func(context.Context, int) ([]model.PaymentTransaction, error) {
		facade.Lock()
		calls++
		facade.Unlock()
		return nil, nil
	}
	startStop(t, &testhelpers.PaymentProviderStub{}, facade)
	facade.Lock()
	defer facade.Unlock()
	if calls == 0 {
		t.Fatal("expected verifier to poll")
	}
}

func TestRegisterLifecycleSkipsVerifierWhenProviderDisabled(t *testing.T) {
	calls := 0
	facade := &testhelpers.WorkerFacadeStub{}
	facade.BatchFn = func(context.Context, int) ([]model.PaymentTransaction, error) {
		facade.Lock()
		calls++
		facade.Unlock()
		return nil, nil
	}
	startStop(t, &testhelpers.PaymentProviderStub{Disabled: true}, facade)
	facade.Lock()
	defer facade.Unlock()
	if calls != 0 {
		t.Fatalf("verifier must not poll without provider, got %d calls", calls)
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Worker:     newTestVerifier(&testhelpers.WorkerFacadeStub{}),
		Provider:   &testhelpers.PaymentProviderStub{Disabled: true},
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}
	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderAppend(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	recorder.Append(fx.Hook{})
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected hook to be appended")
	}
}
