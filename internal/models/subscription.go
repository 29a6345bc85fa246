package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionPackage представляет тарифный пакет размещения объявлений.
// Справочная сущность: после покупки пакета пользователями меняется
// только флаг IsActive (предлагается ли пакет новым покупателям).
type SubscriptionPackage struct {
	ID           string          // Уникальный идентификатор пакета
	Name         string          // Название
	NameAr       string          // Название на арабском
	Description  string          // Описание
	Price        decimal.Decimal // Стоимость пакета
	MaxProducts  int             // Квота: максимум одновременно размещённых товаров
	DurationDays int             // Длительность действия в днях
	IsActive     bool            // Предлагается ли пакет к покупке
	CreatedAt    time.Time       // Дата создания
}

// UserSubscription связывает пользователя с купленным пакетом.
// У пользователя в любой момент не более одной активной подписки.
// ProductsUsed не превышает MaxProducts пакета, пока статус active.
type UserSubscription struct {
	ID           string               // Уникальный идентификатор подписки
	UserUID      string               // Идентификатор пользователя
	PackageID    string               // Идентификатор пакета
	Status       string               // Статус: active, expired или cancelled
	StartedAt    time.Time            // Дата начала действия
	ExpiresAt    *time.Time           // Дата окончания (nil — бессрочная)
	ProductsUsed int                  // Занято единиц квоты
	CreatedAt    time.Time            // Дата создания записи
	UpdatedAt    time.Time            // Дата последнего изменения
	Package      *SubscriptionPackage // Данные пакета
}

// Статусы подписки.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// DummyPurchase используется для приёма запроса на покупку пакета.
// Оплата в текущей версии только имитируется.
type DummyPurchase struct {
	PackageID string `json:"package_id" validate:"required,uuid"` // Идентификатор пакета
}
