// Package fixurls реализует служебный HTTP-обработчик починки ссылок
// на изображения, испорченных двойной склейкой путей. Операция
// идемпотентна: повторный вызов ничего не меняет.
package fixurls

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/scanhub/barcode-aggregator/internal/http/response"
	"github.com/scanhub/barcode-aggregator/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики починки ссылок.
type Service interface {
	FixImageURLs(ctx context.Context) (int64, error)
}

// Handler обрабатывает запросы починки ссылок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Починка ссылок на изображения
// @Tags Products
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /products/fix-urls [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.fixurls"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	updated, err := h.service.FixImageURLs(r.Context())
	if err != nil {
		log.Error("failed to fix image urls", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not fix image urls"))
		return
	}

	log.Info("fixed image urls", slog.Int64("updated", updated))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": updated,
	}))
}
