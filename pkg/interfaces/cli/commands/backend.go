package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/receiving/pkg/application/services"
	"github.com/vsinha/receiving/pkg/domain/services/reconciliation"
	"github.com/vsinha/receiving/pkg/infrastructure/config"
	"github.com/vsinha/receiving/pkg/infrastructure/events"
	"github.com/vsinha/receiving/pkg/infrastructure/logging"
	"github.com/vsinha/receiving/pkg/infrastructure/repositories/postgres"
)

// backend bundles the collaborators shared by the database-backed commands
type backend struct {
	config     *config.Config
	logger     *logrus.Logger
	store      *postgres.Store
	eventStore *events.InMemoryEventStore
	service    *services.ReceivingService
}

func openBackend(ctx context.Context, configPath string) (*backend, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database url is not configured (set DATABASE_URL or database.url)")
	}

	store, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	eventStore := events.NewInMemoryEventStore(logger)
	if err := eventStore.Subscribe(
		[]string{events.VarianceDetectedEvent},
		events.NewVarianceLogHandler(logger),
	); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to subscribe variance handler: %w", err)
	}

	service := services.NewReceivingService(
		store,
		store,
		store,
		reconciliation.NewReconciler(),
		eventStore,
		logger,
	)

	return &backend{
		config:     cfg,
		logger:     logger,
		store:      store,
		eventStore: eventStore,
		service:    service,
	}, nil
}

func (r *backend) Close() {
	r.eventStore.Wait()
	r.store.Close()
}
