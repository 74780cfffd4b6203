// Package barcodeaggregator собирает все зависимости сервиса каталога
// штрихкодов и управляет жизненным циклом HTTP-сервера.
package barcodeaggregator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/scanhub/barcode-aggregator/internal/cache"
	"github.com/scanhub/barcode-aggregator/internal/config"
	"github.com/scanhub/barcode-aggregator/internal/lib/jwt"
	"github.com/scanhub/barcode-aggregator/internal/migrations"
	authservice "github.com/scanhub/barcode-aggregator/internal/services/auth"
	productservice "github.com/scanhub/barcode-aggregator/internal/services/product"
	userproductservice "github.com/scanhub/barcode-aggregator/internal/services/userproduct"
	"github.com/scanhub/barcode-aggregator/internal/storage/objectstore"
	"github.com/scanhub/barcode-aggregator/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	imageStore := objectstore.New(cfg.ObjectStorage)
	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	productService := productservice.NewProductService(db, cacheRedis, imageStore, logger)
	authService := authservice.NewAuthService(db, jwtMaker)
	userProductService := userproductservice.NewUserProductService(db, imageStore, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, jwtMaker, productService, authService, userProductService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.cache.DB.Close()
		_ = a.db.DB.Close()
		return err
	}
}
