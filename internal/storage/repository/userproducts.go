package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scanhub/barcode-aggregator/internal/models"
)

const userProductColumns = `id, barcode, name, image_url, stock, user_id, created_at, updated_at`

func scanUserProduct(row rowScanner) (*models.UserProduct, error) {
	var p models.UserProduct
	var name, imageURL sql.NullString
	if err := row.Scan(&p.ID, &p.Barcode, &name, &imageURL, &p.Stock, &p.UserID,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Name = name.String
	p.ImageURL = imageURL.String
	return &p, nil
}

// CreateUserProduct вставляет товар пользователя. Внешний ключ гарантирует,
// что владелец существует на момент создания; нарушение превращается
// в ErrUserNotFound.
func (s *Storage) CreateUserProduct(ctx context.Context, entry models.UserProduct) (*models.UserProduct, error) {
	const op = "storage.CreateUserProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_products (barcode, name, image_url, stock, user_id)
			  VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
			  RETURNING ` + userProductColumns
	created, err := scanUserProduct(s.DB.QueryRowContext(ctx, query,
		entry.Barcode, entry.Name, entry.ImageURL, entry.Stock, entry.UserID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ListUserProducts возвращает все товары пользователя по его ID.
func (s *Storage) ListUserProducts(ctx context.Context, userID string) ([]*models.UserProduct, error) {
	const op = "storage.ListUserProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userProductColumns + `
			  FROM user_products WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	result := []*models.UserProduct{}
	for rows.Next() {
		item, err := scanUserProduct(rows)
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
