// Package read реализует HTTP-обработчик для получения товара по ID.
//
// Успешное чтение по ID — единственная читающая операция с побочным
// эффектом: счётчик сканирований записи атомарно увеличивается на единицу,
// и в ответ попадает уже новое значение.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/scanhub/barcode-aggregator/internal/http/response"
	"github.com/scanhub/barcode-aggregator/internal/lib/sl"
	"github.com/scanhub/barcode-aggregator/internal/models"
	"github.com/scanhub/barcode-aggregator/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения товара со сканом.
type Service interface {
	ReadAndTouch(ctx context.Context, id string) (*models.Product, error)
}

// Handler обрабатывает запросы на получение товара по уникальному идентификатору.
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

// ServeHTTP godoc
// @Summary Товар по ID
// @Description Возвращает товар и увеличивает его счётчик сканирований на единицу.
// @Tags Products
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "ID товара (UUID)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Error("invalid product id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
		return
	}

	product, err := h.service.ReadAndTouch(r.Context(), id)
	if errors.Is(err, repository.ErrProductNotFound) {
		log.Info("product not found", slog.String("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		log.Error("failed to read product", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read product"))
		return
	}

	log.Info("success to read product",
		slog.String("id", id), slog.Int64("scans", product.Scans))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
