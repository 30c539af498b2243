package payment

import (
	"testing"

	"github.com/polkiloo/orderengine/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	client, err := newClient(clientParams{Config: &config.Config{PaymentProviderAddress: "http://example.com"}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !client.Enabled() {
		t.Fatal("expected http client")
	}

	client, err = newClient(clientParams{Config: &config.Config{}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.(DisabledClient); !ok {
		t.Fatalf("expected disabled client, got %T", client)
	}
}
