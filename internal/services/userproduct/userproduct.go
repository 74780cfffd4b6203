// Package services содержит бизнес-логику товаров, принадлежащих пользователям.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scanhub/barcode-aggregator/internal/models"
	productservice "github.com/scanhub/barcode-aggregator/internal/services/product"
)

// UserProductRepository определяет методы хранилища пользовательских товаров.
type UserProductRepository interface {
	// CreateUserProduct вставляет товар пользователя.
	CreateUserProduct(ctx context.Context, entry models.UserProduct) (*models.UserProduct, error)
	// ListUserProducts возвращает товары пользователя по его ID.
	ListUserProducts(ctx context.Context, userID string) ([]*models.UserProduct, error)
}

// UserProductService реализует операции над товарами пользователя.
type UserProductService struct {
	repo   UserProductRepository
	images productservice.ImageStore
	log    *slog.Logger
}

// NewUserProductService создает новый экземпляр UserProductService.
func NewUserProductService(repo UserProductRepository, images productservice.ImageStore, log *slog.Logger) *UserProductService {
	return &UserProductService{
		repo:   repo,
		images: images,
		log:    log,
	}
}

// Create создаёт товар пользователя. Владелец берётся из токена сессии,
// существование владельца гарантирует внешний ключ в хранилище.
func (s *UserProductService) Create(ctx context.Context, userID, barcode, name string, stock int, image *productservice.ImageUpload) (*models.UserProduct, error) {
	var imageURL string
	if image != nil {
		url, err := s.images.UploadImage(ctx, image.Reader, image.Filename, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		imageURL = url
	}

	entry := models.UserProduct{
		Barcode:  barcode,
		Name:     name,
		ImageURL: imageURL,
		Stock:    stock,
		UserID:   userID,
	}
	created, err := s.repo.CreateUserProduct(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.log.Info("created user product",
		slog.String("id", created.ID), slog.String("user_id", userID))
	return created, nil
}

// List возвращает товары пользователя.
func (s *UserProductService) List(ctx context.Context, userID string) ([]*models.UserProduct, error) {
	return s.repo.ListUserProducts(ctx, userID)
}
