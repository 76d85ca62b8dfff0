package main

import (
	"context"
	"log/slog"
	"os"

	"tripstore/config"
	"tripstore/internal/backend"
	"tripstore/internal/delivery"
	"tripstore/internal/delivery/api"
	"tripstore/internal/delivery/api/middleware"
	"tripstore/internal/delivery/api/router/handler"
	"tripstore/internal/infra/auth"
	logs "tripstore/internal/infra/log"
	"tripstore/internal/infra/persistence/document"
	"tripstore/internal/infra/persistence/postgres"
	"tripstore/internal/infra/pubsub"
	"tripstore/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectBackends(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectBackends() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewSetBuilder,
			document.NewSetBuilder,
			backend.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewValidationService,
			impl.NewMigrationService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			func(r *backend.Registry) handler.Pinger { return r },
			func(r *backend.Registry) handler.PlaceQueries { return r },
			handler.NewHealthHandler,
			handler.NewBackendHandler,
			handler.NewMigrationHandler,
			handler.NewPlaceHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
