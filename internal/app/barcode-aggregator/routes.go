// Package barcodeaggregator предоставляет маршруты для основного приложения.
package barcodeaggregator

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/scanhub/barcode-aggregator/internal/config"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/auth/login"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/auth/me"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/auth/register"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/count"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/create"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/fixurls"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/latest"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/list"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/read"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/remove"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/search"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/stats"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/top"
	"github.com/scanhub/barcode-aggregator/internal/http/handlers/product/update"
	upcreate "github.com/scanhub/barcode-aggregator/internal/http/handlers/userproduct/create"
	uplist "github.com/scanhub/barcode-aggregator/internal/http/handlers/userproduct/list"
	"github.com/scanhub/barcode-aggregator/internal/http/middlewarectx"
	"github.com/scanhub/barcode-aggregator/internal/lib/jwt"
	authservice "github.com/scanhub/barcode-aggregator/internal/services/auth"
	productservice "github.com/scanhub/barcode-aggregator/internal/services/product"
	userproductservice "github.com/scanhub/barcode-aggregator/internal/services/userproduct"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	jwtMaker jwt.Maker,
	productService *productservice.ProductService,
	authService *authservice.AuthService,
	userProductService *userproductservice.UserProductService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Get("/auth/me", me.New(logger).ServeHTTP)
			r.Post("/user-products", upcreate.New(logger, userProductService).ServeHTTP)
			r.Get("/user-products", uplist.New(logger, userProductService).ServeHTTP)
		})

		// Группа публичного каталога, защищённая API-ключом
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.APIKeyMiddleware(cfg.APIKey, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/products", list.New(logger, productService).ServeHTTP)
			r.Post("/products", create.New(logger, productService).ServeHTTP)
			r.Get("/products/top", top.New(logger, productService).ServeHTTP)
			r.Get("/products/latest", latest.New(logger, productService).ServeHTTP)
			r.Get("/products/count", count.New(logger, productService).ServeHTTP)
			r.Get("/products/stats", stats.New(logger, productService).ServeHTTP)
			r.Get("/products/search/{barcode}", search.New(logger, productService).ServeHTTP)
			r.Post("/products/fix-urls", fixurls.New(logger, productService).ServeHTTP)
			r.Get("/products/{id}", read.New(logger, productService).ServeHTTP)
			r.Put("/products/{id}", update.New(logger, productService).ServeHTTP)
			r.Delete("/products/{id}", remove.New(logger, productService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
