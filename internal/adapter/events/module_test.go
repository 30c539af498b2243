package events

import (
	"context"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/orderengine/internal/config"
)

func TestNewPublisherWithoutBrokers(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	pub := newPublisher(publisherParams{Lifecycle: lc, Config: &config.Config{}, Logger: testLogger()})
	if _, ok := pub.(NoopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", pub)
	}
}

func TestNewPublisherWithBrokers(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	pub := newPublisher(publisherParams{
		Lifecycle: lc,
		Config:    &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "orders"},
		Logger:    testLogger(),
	})
	if _, ok := pub.(*KafkaPublisher); !ok {
		t.Fatalf("expected kafka publisher, got %T", pub)
	}
	lc.RequireStart()
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}
}
