// Package errs содержит типизированные ошибки бизнес-правил маркетплейса.
// Каждый отказ — именованный исход: обработчики различают их через
// errors.Is и errors.As и подбирают корректный HTTP-статус, ничего не
// пробрасывается наружу как непрозрачная ошибка.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCatalogUnavailable — сбой чтения каталога (хранилище недоступно).
	// Восстановимая ошибка: вызывающая сторона повторяет запрос или
	// показывает предыдущий результат.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrProductUnavailable — товар снят с продажи на момент операции.
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrInvalidQuantity — количество в строке корзины меньше единицы.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrEmptyContent — пустой текст сообщения.
	ErrEmptyContent = errors.New("empty message content")

	// ErrNotAuthorized — действие выполняет не тот пользователь,
	// которому оно разрешено.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNoActiveSubscription — у продавца нет активной подписки.
	ErrNoActiveSubscription = errors.New("no active subscription")

	// ErrSubscriptionExpired — срок действия подписки истёк.
	ErrSubscriptionExpired = errors.New("subscription expired")

	// ErrNotFound — запрошенная сущность не существует.
	ErrNotFound = errors.New("not found")
)

// QuotaExceededError — квота активной подписки исчерпана.
// Содержит лимит пакета и текущее использование для сообщения пользователю.
type QuotaExceededError struct {
	Limit int // Максимум товаров по пакету
	Used  int // Занято единиц квоты
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("subscription quota exceeded: used %d of %d", e.Used, e.Limit)
}

// StaleCartError — часть строк корзины ссылается на товары, снятые с
// продажи после добавления. Оформление заказа не выполняется частично:
// ошибка перечисляет все проблемные товары сразу.
type StaleCartError struct {
	ProductIDs []string // Товары, ставшие недоступными
}

func (e *StaleCartError) Error() string {
	return fmt.Sprintf("cart contains unavailable products: %s", strings.Join(e.ProductIDs, ", "))
}
