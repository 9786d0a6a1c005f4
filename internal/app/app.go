package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/market-contract-tests/internal/config"
	"github.com/samvad-hq/market-contract-tests/internal/fixtures"
	"github.com/samvad-hq/market-contract-tests/internal/logger"
	"github.com/samvad-hq/market-contract-tests/internal/storage"
	"github.com/samvad-hq/market-contract-tests/pkg/httpclient"
	"github.com/samvad-hq/market-contract-tests/pkg/market"
	"github.com/samvad-hq/market-contract-tests/pkg/publishers"
)

// App wires the market client, the product ledger and the probe publishers
// from a loaded config. It is shared by the CLI and the live suite.
type App struct {
	cfg     *config.Config
	client  *market.Client
	catalog *fixtures.Catalog
	store   storage.Store
	fanout  *publishers.Fanout
	sweeper *Sweeper
	prober  *Prober
	log     logger.Logger
}

// New builds the runtime described by cfg.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := httpclient.ParseLogLevel(cfg.HTTPLogLevel)
	if err != nil {
		return nil, fmt.Errorf("http log level: %w", err)
	}
	opts := market.Options{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.HTTPTimeout,
		LogLevel: level,
	}
	if logger.S != nil {
		opts.RestyLogger = logger.S
	}
	client, err := market.NewClient(opts, log)
	if err != nil {
		return nil, fmt.Errorf("init market client: %w", err)
	}

	catalog, err := fixtures.LoadCatalog(cfg.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	pubCfgs, err := publishers.LoadConfigs(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	enabled := publishers.Enabled(pubCfgs)
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	summaries := make([]map[string]string, 0, len(enabled))
	for _, pc := range enabled {
		summaries = append(summaries, map[string]string{"id": pc.ID, "type": pc.Type})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(cfg.LedgerType, cfg.LedgerPath, storage.Options{
		TTL:             cfg.LedgerTTL,
		CleanupInterval: cfg.LedgerCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init ledger: %w", err)
	}
	log.InfoObj("ledger initialized", "ledger_config", map[string]any{
		"type":                     cfg.LedgerType,
		"path":                     cfg.LedgerPath,
		"ttl_seconds":              int(cfg.LedgerTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.LedgerCleanupInterval.Seconds()),
	})

	return &App{
		cfg:     cfg,
		client:  client,
		catalog: catalog,
		store:   store,
		fanout:  fanout,
		sweeper: NewSweeper(client.Products(), store, log),
		prober:  NewProber(client, catalog, cfg.BaseURL, fanout, log),
		log:     log,
	}, nil
}

func (a *App) Client() *market.Client     { return a.client }
func (a *App) Catalog() *fixtures.Catalog { return a.catalog }
func (a *App) Sweeper() *Sweeper          { return a.sweeper }
func (a *App) Prober() *Prober            { return a.prober }
func (a *App) Config() *config.Config     { return a.cfg }

// Factory returns a product factory for the named catalog category.
func (a *App) Factory(category string) (*fixtures.Factory, error) {
	ct, ok := a.catalog.Lookup(category)
	if !ok {
		return nil, fmt.Errorf("category %q not in catalog", category)
	}
	return fixtures.NewFactory(a.cfg.FixturesSeed, ct), nil
}

// Close releases the publishers and the ledger, logging any errors
// encountered.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if err := a.fanout.Close(); err != nil {
		a.log.ErrorObj("publisher close failed", "error", err)
		errs = append(errs, err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.ErrorObj("ledger close failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
