// Package create реализует HTTP-обработчик добавления товара в личный
// список пользователя.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/scanhub/barcode-aggregator/internal/http/middlewarectx"
	"github.com/scanhub/barcode-aggregator/internal/http/response"
	"github.com/scanhub/barcode-aggregator/internal/lib/sl"
	"github.com/scanhub/barcode-aggregator/internal/models"
	productservice "github.com/scanhub/barcode-aggregator/internal/services/product"
	"github.com/scanhub/barcode-aggregator/internal/storage/repository"
)

const maxUploadSize = 10 << 20

// Request — входные данные для добавления товара пользователя.
type Request struct {
	Barcode string `validate:"required"`
	Name    string
	Stock   int `validate:"gte=0"`
}

// Service описывает интерфейс бизнес-логики товаров пользователя.
type Service interface {
	Create(ctx context.Context, userID, barcode, name string, stock int, image *productservice.ImageUpload) (*models.UserProduct, error)
}

// Handler обрабатывает запросы добавления товара пользователя.
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
// @Summary Добавление товара пользователя
// @Tags UserProducts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param barcode formData string true "Штрихкод"
// @Param name formData string false "Название"
// @Param stock formData int false "Остаток"
// @Param image formData file false "Изображение"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /user-products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.userproduct.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("missing user identity in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

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
	if raw := r.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			log.Error("invalid stock value", slog.String("stock", raw))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid stock value"))
			return
		}
		req.Stock = stock
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

	product, err := h.service.Create(r.Context(), userID, req.Barcode, req.Name, req.Stock, image)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Error("user not found", slog.String("user_id", userID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to create user product", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create user product"))
		return
	}

	log.Info("created user product", slog.String("id", product.ID), slog.String("user_id", userID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
