package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wingtrack/wingtrack/internal/server"
	"github.com/wingtrack/wingtrack/modules"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/configuration"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
	"github.com/wingtrack/wingtrack/pkg/metrics"
)

func main() {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	cancel()
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app); err != nil {
		logger.Fatalf("failed to load modules: %v", err)
	}
	if err := app.Migrations().Run(context.Background()); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		logger.Fatalf("failed to build server: %v", err)
	}

	logger.Infof("listening on %s", conf.SocketAddress)
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
