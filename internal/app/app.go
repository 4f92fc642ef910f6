// Package app assembles the marketplace API from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/api"
	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/core/service"
	"github.com/bazaar/marketplace-api/internal/infrastructure/db/memory"
	mongostore "github.com/bazaar/marketplace-api/internal/infrastructure/db/mongo"
	redisstore "github.com/bazaar/marketplace-api/internal/infrastructure/db/redis"
	"github.com/bazaar/marketplace-api/internal/infrastructure/http/handlers"
	"github.com/bazaar/marketplace-api/internal/infrastructure/queue"
	"github.com/bazaar/marketplace-api/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server and every long-lived dependency behind it.
type App struct {
	Echo *echo.Echo

	cfg        *config.Config
	log        zerolog.Logger
	dispatcher *queue.Dispatcher
	closers    []func(context.Context) error
}

// Option customises New.
type Option func(*options)

type options struct {
	registry *prometheus.Registry
}

// WithRegistry sends HTTP metrics to reg instead of the global registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

type stores struct {
	users         ports.UserRepository
	products      ports.ProductRepository
	notifications ports.NotificationRepository
}

// New connects the configured backends, seeds demo data when asked and
// builds the router. The notification workers are running when it returns.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, log: log}
	health := make(map[string]handlers.Pinger)

	st, err := a.openStores(ctx, health)
	if err != nil {
		a.closeAll(ctx)
		return nil, err
	}

	locker, err := a.openLocker(ctx, health)
	if err != nil {
		a.closeAll(ctx)
		return nil, err
	}

	credentials, err := service.NewCredentialVerifier(cfg.Auth.CredentialPolicy)
	if err != nil {
		a.closeAll(ctx)
		return nil, err
	}
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	notifications := service.NewNotificationService(st.notifications, log.With().Str("component", "notifications").Logger())
	a.dispatcher = queue.NewDispatcher(cfg.Notifier.Workers, notifications, log.With().Str("component", "dispatcher").Logger())
	a.dispatcher.Start()

	authSvc := service.NewAuthService(service.AuthDeps{
		Users:            st.users,
		Tokens:           tokens,
		Credentials:      credentials,
		Hasher:           hasher,
		Locker:           locker,
		Notifier:         a.dispatcher,
		Logger:           log.With().Str("component", "auth").Logger(),
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	})
	vendorSvc := service.NewVendorService(st.users, a.dispatcher, log.With().Str("component", "vendors").Logger())
	productSvc := service.NewProductService(st.products, st.users, log.With().Str("component", "products").Logger())

	if cfg.Store.SeedDemo {
		seeder := service.NewSeeder(st.users, st.products, hasher, log)
		if _, err := seeder.Seed(ctx); err != nil {
			a.closeAll(ctx)
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	deps := api.Dependencies{
		Auth:          authSvc,
		Products:      productSvc,
		Vendors:       vendorSvc,
		Notifications: notifications,
		Tokens:        tokens,
		Health:        health,
		Logger:        log,
	}
	if o.registry != nil {
		deps.Registerer = o.registry
		deps.Gatherer = o.registry
	}
	a.Echo = api.NewRouter(deps)

	return a, nil
}

func (a *App) openStores(ctx context.Context, health map[string]handlers.Pinger) (stores, error) {
	switch a.cfg.Store.Backend {
	case config.BackendMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, s.Close)
		health["mongodb"] = s
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("using mongodb store")
		return stores{users: s.Users, products: s.Products, notifications: s.Notifications}, nil
	default:
		a.log.Info().Msg("using in-memory store")
		return stores{
			users:         memory.NewUserRepository(),
			products:      memory.NewProductRepository(),
			notifications: memory.NewNotificationRepository(),
		}, nil
	}
}

func (a *App) openLocker(ctx context.Context, health map[string]handlers.Pinger) (ports.KeyLocker, error) {
	if a.cfg.Redis.Addr == "" {
		return memory.NewKeyLocker(), nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	health["redis"] = handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	a.log.Info().Str("addr", a.cfg.Redis.Addr).Msg("using redis registration locks")
	return redisstore.NewKeyLocker(client, a.log.With().Str("component", "locker").Logger()), nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("server listening")
		if err := a.Echo.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.Close(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("graceful shutdown failed")
	}
	a.Close(shutdownCtx)
	a.log.Info().Msg("server stopped")
	return nil
}

// Close drains the notification queue and releases backend connections.
func (a *App) Close(ctx context.Context) {
	if a.dispatcher != nil {
		if err := a.dispatcher.Stop(ctx); err != nil {
			a.log.Warn().Err(err).Msg("notification queue not drained")
		}
	}
	a.closeAll(ctx)
}

func (a *App) closeAll(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("close dependency")
		}
	}
	a.closers = nil
}
