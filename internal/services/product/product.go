// Package services содержит бизнес-логику каталога товаров: CRUD-операции,
// счётчик сканирований, агрегаты с кешированием и загрузку изображений.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/scanhub/barcode-aggregator/internal/models"
)

// ProductRepository определяет методы для работы с товарами в хранилище.
type ProductRepository interface {
	// ListProducts возвращает все товары каталога.
	ListProducts(ctx context.Context) ([]*models.Product, error)
	// TopProducts возвращает товары по убыванию счётчика сканирований.
	TopProducts(ctx context.Context, limit int) ([]*models.Product, error)
	// LatestProducts возвращает последние добавленные товары.
	LatestProducts(ctx context.Context, limit int) ([]*models.Product, error)
	// CountProducts возвращает количество товаров.
	CountProducts(ctx context.Context) (int64, error)
	// TotalScans возвращает сумму счётчиков сканирований.
	TotalScans(ctx context.Context) (int64, error)
	// FindProductByBarcode ищет товар по точному штрихкоду.
	FindProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	// TouchProduct атомарно увеличивает счётчик и возвращает запись.
	TouchProduct(ctx context.Context, id string) (*models.Product, error)
	// CreateProduct вставляет товар и возвращает созданную запись.
	CreateProduct(ctx context.Context, barcode, name, imageURL string) (*models.Product, error)
	// UpdateProduct применяет частичное обновление.
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	// DeleteProduct удаляет товар и возвращает удалённую запись.
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)
	// FixImageURLs чинит битые image_url, возвращает число исправленных.
	FixImageURLs(ctx context.Context) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кеша по ключам.
	Invalidate(ctx context.Context, keys ...string) error
}

// ImageStore загружает изображение во внешнее хранилище и возвращает его URL.
type ImageStore interface {
	UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}

// ImageUpload — принятый из multipart-формы файл изображения.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Ключи кеша агрегатных выборок. Путь чтения по ID не кешируется:
// каждый такой запрос обязан дойти до базы и увеличить счётчик.
const (
	cacheKeyList   = "products:all"
	cacheKeyTop    = "products:top"
	cacheKeyLatest = "products:latest"
	cacheKeyCount  = "products:count"
	cacheKeyStats  = "products:stats"

	cacheTTL = time.Minute
)

const (
	topLimit    = 10
	latestLimit = 10
	statsLatest = 5
)

// ProductService реализует бизнес-логику каталога, включая кеширование агрегатов.
type ProductService struct {
	repo   ProductRepository
	cache  Cache
	images ImageStore
	log    *slog.Logger
}

// NewProductService создает новый экземпляр ProductService.
func NewProductService(repo ProductRepository, cache Cache, images ImageStore, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  cache,
		images: images,
		log:    log,
	}
}

// invalidateAggregates сбрасывает кеш всех агрегатных выборок после мутации.
func (s *ProductService) invalidateAggregates(ctx context.Context) {
	if err := s.cache.Invalidate(ctx,
		cacheKeyList, cacheKeyTop, cacheKeyLatest, cacheKeyCount, cacheKeyStats); err != nil {
		s.log.Warn("failed to invalidate products cache", slog.Any("err", err))
	}
}

// cachedProducts возвращает список из кеша либо загружает его через load.
func (s *ProductService) cachedProducts(ctx context.Context, key string,
	load func(context.Context) ([]*models.Product, error)) ([]*models.Product, error) {
	var cached []*models.Product
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("products cache read failed", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache products", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает все товары каталога.
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.cachedProducts(ctx, cacheKeyList, s.repo.ListProducts)
}

// Top возвращает десять товаров с наибольшим числом сканирований.
func (s *ProductService) Top(ctx context.Context) ([]*models.Product, error) {
	return s.cachedProducts(ctx, cacheKeyTop, func(ctx context.Context) ([]*models.Product, error) {
		return s.repo.TopProducts(ctx, topLimit)
	})
}

// Latest возвращает десять последних добавленных товаров.
func (s *ProductService) Latest(ctx context.Context) ([]*models.Product, error) {
	return s.cachedProducts(ctx, cacheKeyLatest, func(ctx context.Context) ([]*models.Product, error) {
		return s.repo.LatestProducts(ctx, latestLimit)
	})
}

// Count возвращает общее количество товаров.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	var cached int64
	found, err := s.cache.Get(ctx, cacheKeyCount, &cached)
	if err != nil {
		s.log.Warn("products cache read failed", slog.String("key", cacheKeyCount), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	total, err := s.repo.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, cacheKeyCount, total, cacheTTL); err != nil {
		s.log.Warn("failed to cache products count", slog.Any("err", err))
	}
	return total, nil
}

// Stats собирает агрегированную статистику каталога: общее число товаров,
// сумму сканирований и пять последних записей.
func (s *ProductService) Stats(ctx context.Context) (*models.ProductStats, error) {
	var cached models.ProductStats
	found, err := s.cache.Get(ctx, cacheKeyStats, &cached)
	if err != nil {
		s.log.Warn("products cache read failed", slog.String("key", cacheKeyStats), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	total, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	scans, err := s.repo.TotalScans(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestProducts(ctx, statsLatest)
	if err != nil {
		return nil, err
	}

	stats := &models.ProductStats{
		TotalProducts: total,
		TotalScans:    scans,
		Latest:        latest,
	}
	if err := s.cache.Set(ctx, cacheKeyStats, stats, cacheTTL); err != nil {
		s.log.Warn("failed to cache products stats", slog.Any("err", err))
	}
	return stats, nil
}

// FindByBarcode ищет товар по точному совпадению штрихкода.
func (s *ProductService) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return s.repo.FindProductByBarcode(ctx, barcode)
}

// ReadAndTouch возвращает товар по ID, увеличив его счётчик сканирований
// ровно на единицу. Кеш агрегатов сбрасывается: top и stats зависят от scans.
func (s *ProductService) ReadAndTouch(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repo.TouchProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateAggregates(ctx)
	return p, nil
}

// uploadImage грузит файл в хранилище объектов, если он был прислан.
func (s *ProductService) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	url, err := s.images.UploadImage(ctx, image.Reader, image.Filename, image.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

// Create создаёт товар; изображение, если прислано, сначала уходит
// в хранилище объектов, его URL попадает в запись.
func (s *ProductService) Create(ctx context.Context, barcode, name string, image *ImageUpload) (*models.Product, error) {
	imageURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.CreateProduct(ctx, barcode, name, imageURL)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new product", slog.String("id", p.ID), slog.String("barcode", p.Barcode))
	s.invalidateAggregates(ctx)
	return p, nil
}

// Update применяет частичное обновление. Прислан файл — он загружается,
// и его URL входит в патч наравне с barcode и name.
func (s *ProductService) Update(ctx context.Context, id string, patch models.ProductPatch, image *ImageUpload) (*models.Product, error) {
	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		patch.ImageURL = &url
	}

	p, err := s.repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidateAggregates(ctx)
	return p, nil
}

// Delete удаляет товар по ID и возвращает удалённую запись.
func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("deleted product", slog.String("id", id))
	s.invalidateAggregates(ctx)
	return p, nil
}

// FixImageURLs запускает идемпотентную починку битых URL изображений.
func (s *ProductService) FixImageURLs(ctx context.Context) (int64, error) {
	modified, err := s.repo.FixImageURLs(ctx)
	if err != nil {
		return 0, err
	}
	if modified > 0 {
		s.log.Info("fixed malformed image urls", slog.Int64("modified", modified))
		s.invalidateAggregates(ctx)
	}
	return modified, nil
}
