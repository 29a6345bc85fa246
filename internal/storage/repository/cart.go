package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// UpsertCartItem добавляет товар в корзину пользователя. На пару
// (пользователь, товар) есть уникальное ограничение: повторное добавление
// того же товара увеличивает количество существующей строки на единицу,
// даже при конкурентных запросах с разных устройств.
func (s *Storage) UpsertCartItem(ctx context.Context, userUID, productID string) (string, error) {
	const op = "storage.UpsertCartItem"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cart_items (user_uid, product_id, quantity)
			  VALUES ($1, $2, 1)
			  ON CONFLICT (user_uid, product_id)
			  DO UPDATE SET quantity = cart_items.quantity + 1
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query, userUID, productID).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateCartItemQuantity устанавливает количество в строке корзины.
// Меняет только строки, принадлежащие userUID. Возвращает количество
// изменённых строк.
func (s *Storage) UpdateCartItemQuantity(ctx context.Context, userUID, itemID string, quantity int) (int, error) {
	const op = "storage.UpdateCartItemQuantity"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_uid = $3`
	result, err := s.DB.ExecContext(ctx, query, quantity, itemID, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteCartItem удаляет строку корзины. Удаление уже отсутствующей
// строки не является ошибкой.
func (s *Storage) DeleteCartItem(ctx context.Context, userUID, itemID string) error {
	const op = "storage.DeleteCartItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cart_items WHERE id = $1 AND user_uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, itemID, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListCartItems возвращает строки корзины пользователя вместе с текущими
// данными товаров (живая цена и доступность).
func (s *Storage) ListCartItems(ctx context.Context, userUID string) ([]*models.CartItem, error) {
	const op = "storage.ListCartItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ci.id, ci.user_uid, ci.product_id, ci.quantity, ci.created_at,
			      p.id, p.seller_uid, p.category_id, p.title, p.description, p.condition, p.price,
			      p.city, p.brand, p.model, p.year, p.part_number, p.is_available, p.views_count,
			      p.created_at, p.updated_at
			  FROM cart_items ci
			  JOIN products p ON p.id = ci.product_id
			  WHERE ci.user_uid = $1
			  ORDER BY ci.created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.CartItem
	for rows.Next() {
		var item models.CartItem
		var product models.Product
		var categoryID sql.NullString
		var year sql.NullInt64
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&product.ID, &product.SellerUID, &categoryID, &product.Title, &product.Description,
			&product.Condition, &product.Price, &product.City, &product.Brand, &product.Model,
			&year, &product.PartNumber, &product.IsAvailable, &product.ViewsCount,
			&product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if categoryID.Valid {
			product.CategoryID = &categoryID.String
		}
		if year.Valid {
			y := int(year.Int64)
			product.Year = &y
		}
		item.Product = &product
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CartTotal считает сумму корзины по текущим ценам товаров. Цена берётся
// из products в момент запроса, а не зафиксированная при добавлении:
// изменение цены продавцом меняет итог без изменения корзины.
func (s *Storage) CartTotal(ctx context.Context, userUID string) (decimal.Decimal, error) {
	const op = "storage.CartTotal"
	select {
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(ci.quantity * p.price), 0)
			  FROM cart_items ci
			  JOIN products p ON p.id = ci.product_id
			  WHERE ci.user_uid = $1`
	var total decimal.Decimal
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// CheckoutCart оформляет заказ по корзине пользователя в одной
// транзакции: строки блокируются, проверяется доступность каждого
// товара, считается итог по текущим ценам и корзина очищается. Если
// хотя бы один товар снят с продажи, транзакция откатывается целиком и
// возвращается StaleCartError со всеми проблемными товарами.
func (s *Storage) CheckoutCart(ctx context.Context, userUID string) (int, decimal.Decimal, error) {
	const op = "storage.CheckoutCart"
	select {
	case <-ctx.Done():
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		`SELECT ci.product_id, ci.quantity, p.price, p.is_available
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_uid = $1
		 FOR UPDATE OF ci`, userUID)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	var itemsCount int
	var total decimal.Decimal
	var staleIDs []string
	for rows.Next() {
		var productID string
		var quantity int
		var price decimal.Decimal
		var isAvailable bool
		if err := rows.Scan(&productID, &quantity, &price, &isAvailable); err != nil {
			_ = rows.Close()
			return 0, decimal.Zero, fmt.Errorf("%s: %w", op, err)
		}
		if !isAvailable {
			staleIDs = append(staleIDs, productID)
			continue
		}
		itemsCount++
		total = total.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	if err := rows.Close(); err != nil {
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	if len(staleIDs) > 0 {
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, &errs.StaleCartError{ProductIDs: staleIDs})
	}
	if itemsCount == 0 {
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_uid = $1`, userUID); err != nil {
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return itemsCount, total, nil
}

// IsProductAvailable возвращает значение флага доступности товара.
func (s *Storage) IsProductAvailable(ctx context.Context, productID string) (bool, error) {
	const op = "storage.IsProductAvailable"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var isAvailable bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT is_available FROM products WHERE id = $1`, productID).Scan(&isAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return isAvailable, nil
}
