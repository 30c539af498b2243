package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderengine/internal/adapter/events"
	"github.com/polkiloo/orderengine/internal/adapter/payment"
	"github.com/polkiloo/orderengine/internal/app"
	"github.com/polkiloo/orderengine/internal/config"
	"github.com/polkiloo/orderengine/internal/logger"
	"github.com/polkiloo/orderengine/internal/pkg/auth"
	"github.com/polkiloo/orderengine/internal/server/http/handlers"
	"github.com/polkiloo/orderengine/internal/server/http/middleware"
	"github.com/polkiloo/orderengine/internal/server/http/router"
	"github.com/polkiloo/orderengine/internal/storage/postgres"
	"github.com/polkiloo/orderengine/internal/usecase"
)

// Module assembles the full application graph. Extra options are appended last so tests can replace providers.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		events.Module,
		usecase.Module,
		fx.Provide(
			func(c payment.Client) app.PaymentProvider { return c },
			func(p events.Publisher) app.EventPublisher { return p },
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.OrderFacade) handlers.EngineFacade { return f },
			func(s auth.Strategy) middleware.TokenParser { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
