package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/scanhub/barcode-aggregator/internal/models"
)

const productColumns = `id, barcode, name, scans, image_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct читает одну строку таблицы products, разворачивая NULL-поля.
func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var name, imageURL sql.NullString
	if err := row.Scan(&p.ID, &p.Barcode, &name, &p.Scans, &imageURL,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Name = name.String
	p.ImageURL = imageURL.String
	return &p, nil
}

// queryProducts выполняет запрос списка товаров и собирает результат.
func (s *Storage) queryProducts(ctx context.Context, op, query string, args ...any) ([]*models.Product, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	result := []*models.Product{}
	for rows.Next() {
		item, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListProducts возвращает все товары каталога в порядке хранения.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	query := `SELECT ` + productColumns + ` FROM products`
	return s.queryProducts(ctx, op, query)
}

// TopProducts возвращает товары, отсортированные по убыванию счётчика сканирований.
func (s *Storage) TopProducts(ctx context.Context, limit int) ([]*models.Product, error) {
	const op = "storage.TopProducts"
	query := `SELECT ` + productColumns + ` FROM products ORDER BY scans DESC LIMIT $1`
	return s.queryProducts(ctx, op, query, limit)
}

// LatestProducts возвращает последние добавленные товары по дате создания.
func (s *Storage) LatestProducts(ctx context.Context, limit int) ([]*models.Product, error) {
	const op = "storage.LatestProducts"
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1`
	return s.queryProducts(ctx, op, query, limit)
}

// CountProducts возвращает общее количество товаров.
func (s *Storage) CountProducts(ctx context.Context) (int64, error) {
	const op = "storage.CountProducts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// TotalScans возвращает сумму счётчиков сканирований по всем товарам.
// Для пустого каталога возвращается 0, а не NULL.
func (s *Storage) TotalScans(ctx context.Context) (int64, error) {
	const op = "storage.TotalScans"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int64
	query := `SELECT COALESCE(SUM(scans), 0) FROM products`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// FindProductByBarcode ищет товар по точному совпадению штрихкода.
// Если штрихкод встречается несколько раз, возвращается первая запись.
func (s *Storage) FindProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	const op = "storage.FindProductByBarcode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1 LIMIT 1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, barcode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// TouchProduct атомарно увеличивает счётчик сканирований на единицу
// и возвращает запись уже с новым значением. Единственная читающая
// операция с побочным эффектом: каждый просмотр по ID считается сканом.
func (s *Storage) TouchProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.TouchProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products SET scans = scans + 1 WHERE id = $1 RETURNING ` + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CreateProduct вставляет новый товар и возвращает созданную запись со scans = 0.
// Пустые name и imageURL сохраняются как NULL.
func (s *Storage) CreateProduct(ctx context.Context, barcode, name, imageURL string) (*models.Product, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (barcode, name, image_url)
			  VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
			  RETURNING ` + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, barcode, name, imageURL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdateProduct применяет частичное обновление товара по ID и возвращает
// обновлённую запись. Пустой патч — ошибка ErrEmptyPatch, несуществующий
// ID — ErrProductNotFound.
func (s *Storage) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if patch.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPatch)
	}

	set := []string{}
	args := []any{}
	argn := 1
	if patch.Barcode != nil {
		set = append(set, fmt.Sprintf("barcode = $%d", argn))
		args = append(args, *patch.Barcode)
		argn++
	}
	if patch.Name != nil {
		set = append(set, fmt.Sprintf("name = NULLIF($%d, '')", argn))
		args = append(args, *patch.Name)
		argn++
	}
	if patch.ImageURL != nil {
		set = append(set, fmt.Sprintf("image_url = NULLIF($%d, '')", argn))
		args = append(args, *patch.ImageURL)
		argn++
	}
	set = append(set, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING `,
		strings.Join(set, ", "), argn) + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeleteProduct удаляет товар по ID и возвращает удалённую запись.
func (s *Storage) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.DeleteProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// FixImageURLs чинит исторически битые image_url вида "/https://...":
// срезает один лишний ведущий символ и возвращает число исправленных записей.
// Корректные значения под шаблон не попадают, поэтому повторный запуск
// всегда возвращает 0.
func (s *Storage) FixImageURLs(ctx context.Context) (int64, error) {
	const op = "storage.FixImageURLs"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET image_url = substr(image_url, 2), updated_at = now()
			  WHERE image_url ~ '^/https?://'`
	result, err := s.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	modified, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return modified, nil
}
