// Package update реализует HTTP-обработчик частичного обновления товара.
//
// Передаются только те поля формы, которые нужно изменить; пустой набор
// изменений отклоняется.
package update

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
	productservice "github.com/scanhub/barcode-aggregator/internal/services/product"
	"github.com/scanhub/barcode-aggregator/internal/storage/repository"
)

const maxUploadSize = 10 << 20

// Service описывает интерфейс бизнес-логики обновления товара.
type Service interface {
	Update(ctx context.Context, id string, patch models.ProductPatch, image *productservice.ImageUpload) (*models.Product, error)
}

// Handler обрабатывает запросы обновления товара.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Частичное обновление товара
// @Tags Products
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Идентификатор товара"
// @Param barcode formData string false "Штрихкод"
// @Param name formData string false "Название"
// @Param image_url formData string false "Ссылка на изображение"
// @Param image formData file false "Изображение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /products/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Error("invalid product id", slog.String("id", id))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	var patch models.ProductPatch
	if _, ok := r.MultipartForm.Value["barcode"]; ok {
		v := r.FormValue("barcode")
		patch.Barcode = &v
	}
	if _, ok := r.MultipartForm.Value["name"]; ok {
		v := r.FormValue("name")
		patch.Name = &v
	}
	if _, ok := r.MultipartForm.Value["image_url"]; ok {
		v := r.FormValue("image_url")
		patch.ImageURL = &v
	}

	var image *productservice.ImageUpload
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		image = &productservice.ImageUpload{
			Reader:      file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	case !errors.Is(err, http.ErrMissingFile):
		log.Error("failed to read image file", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid image file"))
		return
	}

	product, err := h.service.Update(r.Context(), id, patch, image)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmptyPatch):
			log.Error("empty update request", slog.String("id", id))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("no fields to update"))
		case errors.Is(err, repository.ErrProductNotFound):
			log.Error("product not found", slog.String("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
		default:
			log.Error("failed to update product", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update product"))
		}
		return
	}

	log.Info("updated product", slog.String("id", product.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
