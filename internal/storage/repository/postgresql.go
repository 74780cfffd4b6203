// Package repository реализует хранилище данных на основе PostgreSQL
// для каталога товаров и учётных записей пользователей. Предоставляет методы
// создания, чтения, обновления, удаления и агрегирования записей, а также
// атомарный инкремент счётчика сканирований и починку битых URL изображений.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, по которым HTTP-слой выбирает статус ответа.
var (
	// ErrProductNotFound — товар с таким ID или штрихкодом отсутствует.
	ErrProductNotFound = errors.New("product not found")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists — пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrEmptyPatch — частичное обновление без единого поля.
	ErrEmptyPatch = errors.New("empty update patch")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с товарами и пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'products'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table products missing or query error: %w", err)
	}
	return nil
}
