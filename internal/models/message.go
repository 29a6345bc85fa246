package models

import "time"

// Message представляет личное сообщение между покупателем и продавцом,
// опционально привязанное к товару. Статус меняется только в одну
// сторону: unread -> read, и только действием получателя.
type Message struct {
	ID           string    // Уникальный идентификатор сообщения
	SenderUID    string    // Отправитель
	RecipientUID string    // Получатель
	ProductID    *string   // Товар, к которому относится сообщение (nil — без привязки)
	Content      string    // Текст сообщения
	Status       string    // Статус: unread или read
	CreatedAt    time.Time // Дата отправки
	SenderName   string    // Полное имя отправителя (для списка входящих)
	ProductTitle string    // Название товара (для списка входящих)
}

// Статусы сообщения.
const (
	MessageUnread = "unread"
	MessageRead   = "read"
)

// DummyMessage используется для приёма данных нового сообщения из JSON-запроса.
type DummyMessage struct {
	RecipientUID string  `json:"recipient_uid" validate:"required,uuid"`          // Получатель
	ProductID    *string `json:"product_id,omitempty" validate:"omitempty,uuid"`  // Товар (опционально)
	Content      string  `json:"content" validate:"required"`                     // Текст сообщения
}
