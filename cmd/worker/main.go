package main

import (
	"context"
	"log/slog"
	"os"

	"tripstore/config"
	"tripstore/internal/backend"
	"tripstore/internal/delivery"
	"tripstore/internal/delivery/worker"
	"tripstore/internal/delivery/worker/handler"
	logs "tripstore/internal/infra/log"
	"tripstore/internal/infra/persistence/document"
	"tripstore/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectBackends(),
		injectHandler(),
		injectDelivery(),
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

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			func(r *backend.Registry) handler.StoreResolver { return r },
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
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

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
