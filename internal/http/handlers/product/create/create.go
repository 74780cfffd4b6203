// Package create реализует HTTP-обработчик создания товара.
//
// Запрос приходит multipart-формой: обязательное поле barcode, опциональное
// name и опциональный файл image, который уходит в хранилище объектов.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/scanhub/barcode-aggregator/internal/http/response"
	"github.com/scanhub/barcode-aggregator/internal/lib/sl"
	"github.com/scanhub/barcode-aggregator/internal/models"
	productservice "github.com/scanhub/barcode-aggregator/internal/services/product"
)

const maxUploadSize = 10 << 20

// Request — входные данные для создания товара.
type Request struct {
	Barcode string `validate:"required"`
	Name    string
}

// Service описывает интерфейс бизнес-логики создания товара.
type Service interface {
	Create(ctx context.Context, barcode, name string, image *productservice.ImageUpload) (*models.Product, error)
}

// Handler обрабатывает запросы создания товара.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создание товара
// @Tags Products
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param barcode formData string true "Штрихкод"
// @Param name formData string false "Название"
// @Param image formData file false "Изображение"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	req := Request{
		Barcode: r.FormValue("barcode"),
		Name:    r.FormValue("name"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

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

	product, err := h.service.Create(r.Context(), req.Barcode, req.Name, image)
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create product"))
		return
	}

	log.Info("created new product", slog.String("id", product.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
