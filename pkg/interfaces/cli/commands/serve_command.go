package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vsinha/receiving/pkg/infrastructure/lock"
	"github.com/vsinha/receiving/pkg/infrastructure/scheduler"
	"github.com/vsinha/receiving/pkg/interfaces/api"
)

const shutdownTimeout = 10 * time.Second

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	ConfigFile string
	Migrate    bool
}

// ServeCommand runs the HTTP API and, when enabled, the pending-match scheduler
type ServeCommand struct {
	config ServeConfig
}

// NewServeCommand creates a new serve command with the given configuration
func NewServeCommand(config ServeConfig) *ServeCommand {
	return &ServeCommand{config: config}
}

// Execute serves until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context) error {
	rt, err := openBackend(ctx, c.config.ConfigFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	if c.config.Migrate {
		if err := rt.store.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	if rt.config.Scheduler.Enabled {
		var opts []scheduler.Option
		if rt.config.Redis.URL != "" {
			locker, err := lock.OpenRedis(ctx, rt.config.Redis.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			defer locker.Close()
			opts = append(opts, scheduler.WithLocker(locker))
		}

		jobs, err := scheduler.New(rt.config.Scheduler.Schedule, rt.service, rt.logger, opts...)
		if err != nil {
			return err
		}
		jobs.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			jobs.Stop(stopCtx)
		}()
	}

	server := &http.Server{
		Addr:              rt.config.HTTP.Addr,
		Handler:           api.NewRouter(rt.service, rt.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.WithField("addr", server.Addr).Info("receiving api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	rt.logger.Info("receiving api stopped")
	return nil
}
