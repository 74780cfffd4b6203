// Package search реализует HTTP-обработчик поиска товара по точному штрихкоду.
package search

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/scanhub/barcode-aggregator/internal/http/response"
	"github.com/scanhub/barcode-aggregator/internal/lib/sl"
	"github.com/scanhub/barcode-aggregator/internal/models"
	"github.com/scanhub/barcode-aggregator/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики поиска по штрихкоду.
type Service interface {
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

// Handler обрабатывает запросы поиска по штрихкоду.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	barcode := chi.URLParam(r, "barcode")

	product, err := h.service.FindByBarcode(r.Context(), barcode)
	if errors.Is(err, repository.ErrProductNotFound) {
		log.Info("product not found", slog.String("barcode", barcode))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		log.Error("failed to search product", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not search product"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
