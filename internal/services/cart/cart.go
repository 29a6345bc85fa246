// Package cart содержит бизнес-логику корзины покупателя: добавление и
// изменение строк, подсчёт итога по живым ценам и оформление заказа.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// CartRepository определяет методы работы с корзиной в хранилище.
type CartRepository interface {
	// UpsertCartItem добавляет товар в корзину или увеличивает количество
	// существующей строки на единицу.
	UpsertCartItem(ctx context.Context, userUID, productID string) (string, error)
	// UpdateCartItemQuantity устанавливает количество в строке корзины.
	UpdateCartItemQuantity(ctx context.Context, userUID, itemID string, quantity int) (int, error)
	// DeleteCartItem удаляет строку корзины.
	DeleteCartItem(ctx context.Context, userUID, itemID string) error
	// ListCartItems возвращает строки корзины с текущими данными товаров.
	ListCartItems(ctx context.Context, userUID string) ([]*models.CartItem, error)
	// CartTotal считает сумму корзины по текущим ценам.
	CartTotal(ctx context.Context, userUID string) (decimal.Decimal, error)
	// CheckoutCart оформляет заказ и очищает корзину в одной транзакции.
	CheckoutCart(ctx context.Context, userUID string) (int, decimal.Decimal, error)
	// IsProductAvailable возвращает значение флага доступности товара.
	IsProductAvailable(ctx context.Context, productID string) (bool, error)
}

// CartService реализует операции корзины, привязанные к одному
// аутентифицированному пользователю. Скрытого общего состояния нет:
// идентификатор пользователя — явный параметр каждой операции.
type CartService struct {
	repo      CartRepository
	publisher rabbitmq.Publisher
	log       *slog.Logger
}

// New создает новый экземпляр CartService.
func New(repo CartRepository, publisher rabbitmq.Publisher, log *slog.Logger) *CartService {
	return &CartService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Add добавляет товар в корзину пользователя. Повторное добавление того
// же товара увеличивает количество существующей строки, дубль не
// создаётся. Недоступный на момент вызова товар отклоняется с
// errs.ErrProductUnavailable.
func (s *CartService) Add(ctx context.Context, userUID, productID string) (string, error) {
	available, err := s.repo.IsProductAvailable(ctx, productID)
	if err != nil {
		return "", err
	}
	if !available {
		return "", fmt.Errorf("product %s: %w", productID, errs.ErrProductUnavailable)
	}

	id, err := s.repo.UpsertCartItem(ctx, userUID, productID)
	if err != nil {
		return "", err
	}

	s.log.Info("added product to cart",
		slog.String("user_uid", userUID), slog.String("product_id", productID))
	return id, nil
}

// UpdateQuantity устанавливает количество в строке корзины. Значение
// меньше единицы отклоняется с errs.ErrInvalidQuantity: уменьшение ниже
// единицы выполняется операцией Remove.
func (s *CartService) UpdateQuantity(ctx context.Context, userUID, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity %d: %w", quantity, errs.ErrInvalidQuantity)
	}

	count, err := s.repo.UpdateCartItemQuantity(ctx, userUID, itemID, quantity)
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Remove удаляет строку корзины. Операция идемпотентна: удаление уже
// отсутствующей строки — успешный no-op.
func (s *CartService) Remove(ctx context.Context, userUID, itemID string) error {
	return s.repo.DeleteCartItem(ctx, userUID, itemID)
}

// List возвращает строки корзины пользователя с текущими данными товаров.
func (s *CartService) List(ctx context.Context, userUID string) ([]*models.CartItem, error) {
	return s.repo.ListCartItems(ctx, userUID)
}

// Total возвращает сумму корзины по текущим ценам товаров. Итог может
// меняться между просмотрами, если продавец изменил цену, — это
// принятое поведение магазина.
func (s *CartService) Total(ctx context.Context, userUID string) (decimal.Decimal, error) {
	return s.repo.CartTotal(ctx, userUID)
}

// Checkout оформляет заказ по корзине. Если часть товаров стала
// недоступной после добавления, возвращается errs.StaleCartError со всеми
// проблемными строками и ничего не фиксируется. При успехе корзина
// очищена, возвращается подтверждение заказа; событие публикуется в
// очередь заказов, ошибка публикации только логируется.
func (s *CartService) Checkout(ctx context.Context, userUID string) (*models.OrderConfirmation, error) {
	itemsCount, total, err := s.repo.CheckoutCart(ctx, userUID)
	if err != nil {
		return nil, err
	}

	confirmation := &models.OrderConfirmation{
		OrderNumber: uuid.New().String(),
		UserUID:     userUID,
		ItemsCount:  itemsCount,
		Total:       total,
		CreatedAt:   time.Now().UTC(),
	}
	s.log.Info("checkout completed",
		slog.String("user_uid", userUID),
		slog.String("order_number", confirmation.OrderNumber),
		slog.Int("items", itemsCount))

	if err := s.publisher.Publish(rabbitmq.RoutingKeyOrderConfirmed, confirmation); err != nil {
		s.log.Warn("failed to publish order event", sl.Err(err))
	}
	return confirmation, nil
}
