package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tkamdem/stablex/internal/config"
	"github.com/tkamdem/stablex/internal/handlers"
	"github.com/tkamdem/stablex/internal/pg"
	"github.com/tkamdem/stablex/internal/push"
	"github.com/tkamdem/stablex/internal/repo"
	ratecache "github.com/tkamdem/stablex/internal/repo/rate-cache"
	"github.com/tkamdem/stablex/internal/service"
	"github.com/tkamdem/stablex/pkg/auth"
	"github.com/tkamdem/stablex/pkg/logger"
)

const rateCacheTTL = 24 * time.Hour

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg  *config.Config
	api  *handlers.Handlers
	srv  *service.Services
	repo *repo.Repositories

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg.LogLvl)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	auth.SetSecret(cfg.JWTSecret)

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	conn := pg.New(pool)
	a.cfg = cfg
	a.repo = repo.New(conn, txManager)

	cache := ratecache.New(newRedisClient(cfg), rateCacheTTL)
	pushClient := push.NewFCMClient(cfg.FirebaseCredentialsPath, cfg.FirebaseCredentialsJSON)

	a.srv = service.New(a.repo, txManager, pushClient, cache)
	a.api = handlers.New(a.srv)

	if err := a.srv.AuthSvc.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, cfg.AdminPhone); err != nil {
		zap.L().Error("admin bootstrap failed: ", zap.Error(err))
		return fmt.Errorf("can't bootstrap admin account: %w", err)
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

// newRedisClient returns nil when no address is configured; the rate cache
// treats a nil client as a permanent miss.
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.Redis})
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
