package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderengine/internal/config"
)

// Module exposes payment provider client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.PaymentProviderAddress == "" {
		return DisabledClient{}, nil
	}
	return NewHTTPClient(p.Config.PaymentProviderAddress, p.Logger)
}
