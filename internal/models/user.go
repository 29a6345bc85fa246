// Package models содержит доменные структуры маркетплейса автозапчастей,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	FullName     string    // Полное имя
	Phone        string    // Номер телефона
	City         string    // Город пользователя
	Role         string    // Роль пользователя, buyer или merchant
	CreatedAt    time.Time // Дата регистрации
	UpdatedAt    time.Time // Дата последнего изменения
}

// Роли пользователей. Идентичность и роль приходят из слоя аутентификации,
// бизнес-логика им доверяет.
const (
	RoleBuyer    = "buyer"
	RoleMerchant = "merchant"
)

// DummyRegisterRequest используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`                 // Электронная почта
	Username string `json:"username" validate:"required,alphanum"`           // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`              // Пароль
	FullName string `json:"full_name" validate:"required"`                   // Полное имя
	Phone    string `json:"phone,omitempty" validate:"omitempty"`            // Телефон (опционально)
	City     string `json:"city,omitempty" validate:"omitempty"`             // Город (опционально)
	Role     string `json:"role" validate:"required,oneof=buyer merchant"`   // Роль
}

// DummyLoginRequest используется для приёма данных входа из JSON-запроса.
type DummyLoginRequest struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required"`          // Пароль
}
