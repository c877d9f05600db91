package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gomemcache "github.com/bradfitz/gomemcache/memcache"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/helpful/internal/adapter/httpserver"
	"github.com/pscheid92/helpful/internal/adapter/memcache"
	"github.com/pscheid92/helpful/internal/adapter/metrics"
	"github.com/pscheid92/helpful/internal/adapter/postgres"
	"github.com/pscheid92/helpful/internal/adapter/redis"
	"github.com/pscheid92/helpful/internal/adapter/sqlite"
	"github.com/pscheid92/helpful/internal/app"
	"github.com/pscheid92/helpful/internal/cache"
	"github.com/pscheid92/helpful/internal/domain"
	"github.com/pscheid92/helpful/internal/platform/config"
	"github.com/pscheid92/helpful/internal/platform/logging"
	"github.com/pscheid92/helpful/internal/platform/retry"
	"github.com/pscheid92/helpful/internal/platform/version"
	"github.com/pscheid92/helpful/internal/stats"
	goredis "github.com/redis/go-redis/v9"
)

const (
	startupTimeout        = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
	memoryEvictionPeriod  = time.Minute
	startupMaxAttempts    = 6
	startupInitialBackoff = time.Second
	startupMaxBackoff     = 10 * time.Second
)

type repositories struct {
	votes   domain.VoteRepository
	items   domain.ContentStore
	options domain.OptionRepository
	health  httpserver.HealthCheck
	close   func()
}

type transientStore struct {
	store  domain.TransientStore
	health *httpserver.HealthCheck
	close  func()
}

func startupPolicy(clock clockwork.Clock, what string) retry.Policy {
	return retry.Policy{
		MaxAttempts:    startupMaxAttempts,
		InitialBackoff: startupInitialBackoff,
		MaxBackoff:     startupMaxBackoff,
		Clock:          clock,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Backing service not ready, retrying", "service", what, "attempt", attempt, "backoff", backoff, "error", err)
		},
	}
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDatabase(ctx context.Context, cfg *config.Config, clock clockwork.Clock, m *metrics.StoreMetrics) repositories {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			slog.Error("Failed to open sqlite database", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		return repositories{
			votes:   sqlite.NewVoteRepo(db),
			items:   sqlite.NewContentRepo(db),
			options: sqlite.NewOptionRepo(db),
			health:  httpserver.HealthCheck{Name: httpserver.CheckDatabase, Check: sqlite.HealthCheck(db)},
			close:   func() { _ = db.Close() },
		}
	default:
		pool, err := retry.Do(ctx, startupPolicy(clock, "postgres"), retry.Transient, func(ctx context.Context) (*pgxpool.Pool, error) {
			return postgres.Connect(ctx, cfg.DatabaseURL, postgres.NewMetricsTracer(m))
		})
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
			pool.Close()
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		return repositories{
			votes:   postgres.NewVoteRepo(pool),
			items:   postgres.NewContentRepo(pool),
			options: postgres.NewOptionRepo(pool),
			health:  httpserver.HealthCheck{Name: httpserver.CheckDatabase, Check: postgres.HealthCheck(pool)},
			close:   pool.Close,
		}
	}
}

func setupTransientStore(ctx context.Context, cfg *config.Config, clock clockwork.Clock, m *metrics.StoreMetrics) transientStore {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rdb, err := retry.Do(ctx, startupPolicy(clock, "redis"), retry.Transient, func(ctx context.Context) (*goredis.Client, error) {
			return redis.NewClient(ctx, cfg.RedisURL, redis.NewMetricsHook(m), redis.NewCircuitBreakerHook(m))
		})
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		return transientStore{
			store:  redis.NewTransientStore(rdb),
			health: &httpserver.HealthCheck{Name: httpserver.CheckTransientStore, Check: redis.HealthCheck(rdb)},
			close:  func() { _ = rdb.Close() },
		}
	case config.CacheMemcache:
		client, err := retry.Do(ctx, startupPolicy(clock, "memcache"), retry.Transient, func(context.Context) (*gomemcache.Client, error) {
			return memcache.Dial(cfg.MemcacheServerList()...)
		})
		if err != nil {
			slog.Error("Failed to connect to memcache", "error", err)
			os.Exit(1)
		}
		return transientStore{
			store:  memcache.NewTransientStore(client, clock),
			health: &httpserver.HealthCheck{Name: httpserver.CheckTransientStore, Check: memcache.HealthCheck(client)},
			close:  func() { _ = client.Close() },
		}
	default:
		store := cache.NewMemoryStore(clock)
		stopEviction := store.StartEvictionTimer(memoryEvictionPeriod)
		return transientStore{store: store, close: stopEviction}
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"version", version.Get().Version,
		"database", cfg.DatabaseDriver,
		"cache", cfg.CacheBackend,
		"timezone", cfg.Location().String(),
	)

	reg := metrics.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(reg)
	cacheMetrics := metrics.NewCacheMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	repos := setupDatabase(startupCtx, cfg, clock, storeMetrics)
	transient := setupTransientStore(startupCtx, cfg, clock, storeMetrics)
	cancelStartup()
	defer repos.close()
	defer transient.close()

	options := app.NewOptions(repos.options, cfg.OptionDefaults())
	gateway := cache.NewGateway(transient.store, options, cacheMetrics)
	engine := stats.NewEngine(cfg.Location(), cfg.MonthIncludeLastDay)
	svc := app.NewService(repos.votes, repos.items, gateway, options, engine, clock)

	healthChecks := []httpserver.HealthCheck{repos.health}
	if transient.health != nil {
		healthChecks = append(healthChecks, *transient.health)
	}

	srv := httpserver.NewServer(cfg, svc, clock, httpMetrics, metrics.Handler(reg), healthChecks)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
