// Package count реализует HTTP-обработчик подсчёта товаров каталога.
package count

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/scanhub/barcode-aggregator/internal/http/response"
	"github.com/scanhub/barcode-aggregator/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики подсчёта товара.
type Service interface {
	Count(ctx context.Context) (int64, error)
}

// Handler обрабатывает запросы количества товаров.
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
	const op = "handlers.product.count"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	total, err := h.service.Count(r.Context())
	if err != nil {
		log.Error("failed to count products", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count products"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"total": total,
	}))
}
