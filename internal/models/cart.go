package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem представляет строку корзины пользователя. На пару
// (пользователь, товар) существует не более одной строки: повторное
// добавление того же товара увеличивает количество, а не создаёт дубль.
type CartItem struct {
	ID        string    // Уникальный идентификатор строки
	UserUID   string    // Идентификатор владельца корзины
	ProductID string    // Идентификатор товара
	Quantity  int       // Количество, целое >= 1
	CreatedAt time.Time // Дата добавления
	Product   *Product  // Текущие данные товара (живая цена и доступность)
}

// LineTotal возвращает стоимость строки по текущей цене товара.
func (c *CartItem) LineTotal() decimal.Decimal {
	if c.Product == nil {
		return decimal.Zero
	}
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// OrderConfirmation представляет подтверждение оформленного заказа.
// Само хранение и исполнение заказов выполняется внешней системой,
// здесь фиксируется только факт успешного оформления и очистки корзины.
type OrderConfirmation struct {
	OrderNumber string          `json:"order_number"` // Номер заказа
	UserUID     string          `json:"user_uid"`     // Покупатель
	ItemsCount  int             `json:"items_count"`  // Количество строк
	Total       decimal.Decimal `json:"total"`        // Итоговая сумма
	CreatedAt   time.Time       `json:"created_at"`   // Момент оформления
}

// DummyCartAdd используется для приёма запроса на добавление товара в корзину.
type DummyCartAdd struct {
	ProductID string `json:"product_id" validate:"required,uuid"` // Идентификатор товара
}

// DummyCartQuantity используется для приёма запроса на изменение количества.
type DummyCartQuantity struct {
	Quantity int `json:"quantity" validate:"required"` // Новое количество (>= 1 проверяется бизнес-логикой)
}
