// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coraldb/fieldcaps/cmd/config"
	"github.com/coraldb/fieldcaps/internal/log/zerolog"
	"github.com/coraldb/fieldcaps/pkg/fieldcaps"
	"github.com/coraldb/fieldcaps/pkg/fieldcaps/instrumentation"
	"github.com/coraldb/fieldcaps/pkg/fieldcaps/server"
	loglib "github.com/coraldb/fieldcaps/pkg/log"
	"github.com/coraldb/fieldcaps/pkg/otel"
	"github.com/coraldb/fieldcaps/pkg/schema"
	pgcatalog "github.com/coraldb/fieldcaps/pkg/schema/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve starts the field capabilities HTTP endpoint backed by the configured index catalog",
	RunE:  withSignalWatcher(serve),
	Example: `
	fieldcaps serve --postgres-url <catalog-postgres-url>
	fieldcaps serve --fixture-file catalog.yaml --address :7030
	fieldcaps serve --config config.yaml --log-level info`,
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	zlogger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: cfg.LogLevel,
	})
	zerolog.SetGlobalLogger(zlogger)
	logger := zerolog.NewStdLogger(zlogger)

	instrumentationProvider, err := otel.NewInstrumentationProvider(cfg.OtelConfig())
	if err != nil {
		return fmt.Errorf("initialising instrumentation provider: %w", err)
	}
	defer instrumentationProvider.Close()

	catalog, err := newCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer catalog.Close()

	resolver, err := instrumentation.NewResolver(
		fieldcaps.NewResolver(cfg.ResolverConfig(), catalog, fieldcaps.WithLogger(logger)),
		instrumentationProvider.NewInstrumentation("fieldcaps_resolver"),
	)
	if err != nil {
		return fmt.Errorf("initialising resolver: %w", err)
	}

	srv := server.New(cfg.ServerConfig(), resolver, server.WithLogger(logger))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

func newCatalog(ctx context.Context, cfg *config.Config, logger loglib.Logger) (schema.Catalog, error) {
	var catalog schema.Catalog
	switch {
	case cfg.Catalog.PostgresURL != "":
		store, err := pgcatalog.NewStore(ctx, cfg.PostgresCatalogConfig())
		if err != nil {
			return nil, fmt.Errorf("connecting to catalog store: %w", err)
		}
		catalog = schema.NewCatalogCache(store)
	default:
		memCatalog, err := schema.NewMemoryCatalogFromFixtureFile(cfg.Catalog.FixtureFile)
		if err != nil {
			return nil, fmt.Errorf("loading fixture catalog: %w", err)
		}
		catalog = memCatalog
	}

	if backoffCfg := cfg.BackoffConfig(); backoffCfg != nil {
		catalog = schema.NewCatalogRetrier(backoffCfg, catalog, schema.WithRetrierLogger(logger))
	}

	return catalog, nil
}
