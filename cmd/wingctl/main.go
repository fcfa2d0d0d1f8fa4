package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wingtrack/wingtrack/modules"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/configuration"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
	"github.com/wingtrack/wingtrack/pkg/logging"
)

func main() {
	root := &cobra.Command{
		Use:           "wingctl",
		Short:         "Administrative tooling for the wingtrack service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), seedCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context) (application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()
	logger := logging.ConsoleLogger(logrus.InfoLevel)

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return app, pool, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply every pending schema migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			app, pool, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := app.Migrations().Run(ctx); err != nil {
				return err
			}
			app.Logger().Info("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var name, timezone string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a school tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			app, pool, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := app.Migrations().Run(ctx); err != nil {
				return err
			}

			if _, err := time.LoadLocation(timezone); err != nil {
				return fmt.Errorf("invalid timezone %q: %w", timezone, err)
			}
			id := uuid.New()
			_, err = pool.Exec(ctx, `
				INSERT INTO tenants (id, name, timezone) VALUES ($1, $2, $3)`,
				id, name, timezone)
			if err != nil {
				return err
			}
			app.Logger().WithField("tenant_id", id).Infof("created tenant %q", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Demo School", "tenant display name")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone for the school")
	return cmd
}
