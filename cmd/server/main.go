package main // Entry point of the booking API

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/database"
	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/router"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

type stores struct {
	accounts repository.AccountStore
	movies   repository.MovieStore
	ledger   repository.BookingLedger
}

func openStores(ctx context.Context, cfg config.Config) (stores, *sql.DB, error) {
	if cfg.StoreBackend != config.StoreMySQL {
		return stores{
			accounts: repository.NewMemoryAccounts(),
			movies:   repository.NewMemoryMovies(),
			ledger:   repository.NewMemoryLedger(),
		}, nil, nil
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		return stores{}, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return stores{}, nil, err
	}
	return stores{
		accounts: repository.NewAccountRepo(db),
		movies:   repository.NewMovieRepo(db),
		ledger:   repository.NewBookingRepo(db),
	}, db, nil
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, db, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	logger.Info("stores ready", zap.String("backend", cfg.StoreBackend))

	// Redis is optional: without it locks stay in-process and auth routes are
	// not rate limited.
	var rdb *redis.Client
	if cfg.LockBackend == config.LockRedis || config.LoadRateLimitConfig().Enabled {
		rdb = config.NewRedisClient()
		if rdb == nil {
			logger.Warn("redis unavailable")
		} else {
			defer rdb.Close()
		}
	}
	var locker service.Locker = service.NewKeyedMutex()
	if cfg.LockBackend == config.LockRedis {
		if rdb == nil {
			return errors.New("LOCK_BACKEND=redis but redis is unavailable")
		}
		locker = service.NewRedisLocker(rdb, "", logger)
	}
	if cfg.LocalLockOnSharedStore() {
		logger.Warn("showing locks are in-process; run a single API instance against this database or set LOCK_BACKEND=redis")
	}

	var notifier service.Notifier = service.NewLogNotifier(logger)
	if cfg.NotifyBackend == config.NotifyAMQP {
		notifier = queue.NewPublisher(cfg.AMQPURL, logger)
	}

	accounts, err := service.NewAccounts(st.accounts, cfg.AdminUsers, cfg.BcryptCost, logger)
	if err != nil {
		return err
	}
	catalog := service.NewCatalog(st.movies, logger)
	if cfg.SeedCatalog {
		if err := catalog.Seed(ctx); err != nil {
			return err
		}
	}
	engine := service.NewBookingEngine(st.ledger, catalog, st.accounts, locker, notifier, logger)
	defer engine.Wait()

	e := router.New(router.Deps{
		Auth:           handler.NewAuthHandler(accounts, cfg.JWTSecret, cfg.AccessTTLMin, logger),
		Movies:         handler.NewMovieHandler(catalog, logger),
		Bookings:       handler.NewBookingHandler(engine, logger),
		JWTSecret:      cfg.JWTSecret,
		AuthLimiter:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
		MetricsEnabled: cfg.MetricsEnabled,
		Log:            logger,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
