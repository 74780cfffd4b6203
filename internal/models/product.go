// Package models содержит доменные структуры сервиса: товары со счётчиком
// сканирований, пользовательские товары и вспомогательные типы для приёма
// данных из HTTP-запросов.
package models

import "time"

// Product представляет запись штрихкода/товара публичного каталога.
// Поле Scans увеличивается ровно на единицу при каждом успешном чтении по ID
// и никогда не уменьшается.
type Product struct {
	ID        string    `json:"id"`                  // Уникальный идентификатор (UUID), неизменяемый
	Barcode   string    `json:"barcode"`             // Штрихкод, обязательное поле; уникальность не гарантируется
	Name      string    `json:"name,omitempty"`      // Название товара, опционально
	Scans     int64     `json:"scans"`               // Счётчик просмотров по ID
	ImageURL  string    `json:"image_url,omitempty"` // Ссылка на изображение во внешнем хранилище
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductPatch описывает частичное обновление товара: заполняются только
// те поля, которые клиент прислал. Пустой патч — ошибка уровня сервиса.
type ProductPatch struct {
	Barcode  *string
	Name     *string
	ImageURL *string
}

// IsEmpty сообщает, что ни одно поле патча не заполнено.
func (p ProductPatch) IsEmpty() bool {
	return p.Barcode == nil && p.Name == nil && p.ImageURL == nil
}

// ProductStats содержит агрегированную статистику каталога.
// TotalScans равен сумме Scans по всем записям и равен 0 для пустого каталога.
type ProductStats struct {
	TotalProducts int64      `json:"total_products"`
	TotalScans    int64      `json:"total_scans"`
	Latest        []*Product `json:"latest"` // Пять последних записей по дате создания
}

// UserProduct — товар, принадлежащий конкретному пользователю.
// UserID ссылается на существующего пользователя на момент создания записи.
type UserProduct struct {
	ID        string    `json:"id"`
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Stock     int       `json:"stock"` // Остаток на складе, по умолчанию 0
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
