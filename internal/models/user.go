// Package models содержит доменную модель пользователя, включающую данные
// учётной записи и хэш пароля. Сырой пароль нигде не хранится и не отдаётся.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    `json:"id"`        // Уникальный идентификатор пользователя (UUID)
	Name         string    `json:"name"`      // Имя
	LastName     string    `json:"last_name"` // Фамилия
	Email        string    `json:"email"`     // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`         // bcrypt-хэш пароля, наружу не отдаётся
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser — публичная проекция пользователя для ответов логина.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Public возвращает проекцию пользователя без чувствительных полей.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}
