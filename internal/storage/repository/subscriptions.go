package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// ListPackages возвращает предлагаемые к покупке тарифные пакеты,
// отсортированные по цене.
func (s *Storage) ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error) {
	const op = "storage.ListPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, name_ar, description, price, max_products, duration_days, is_active, created_at
			  FROM subscription_packages
			  WHERE is_active = TRUE
			  ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.SubscriptionPackage
	for rows.Next() {
		var item models.SubscriptionPackage
		if err := rows.Scan(&item.ID, &item.Name, &item.NameAr, &item.Description, &item.Price,
			&item.MaxProducts, &item.DurationDays, &item.IsActive, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPackage возвращает тарифный пакет по ID.
func (s *Storage) GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error) {
	const op = "storage.GetPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, name_ar, description, price, max_products, duration_days, is_active, created_at
			  FROM subscription_packages WHERE id = $1`
	var item models.SubscriptionPackage
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name, &item.NameAr,
		&item.Description, &item.Price, &item.MaxProducts, &item.DurationDays, &item.IsActive, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// GetActiveSubscription возвращает активную подписку пользователя вместе с пакетом.
func (s *Storage) GetActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT us.id, us.user_uid, us.package_id, us.status, us.started_at, us.expires_at,
			      us.products_used, us.created_at, us.updated_at,
			      sp.id, sp.name, sp.name_ar, sp.description, sp.price, sp.max_products,
			      sp.duration_days, sp.is_active, sp.created_at
			  FROM user_subscriptions us
			  JOIN subscription_packages sp ON sp.id = us.package_id
			  WHERE us.user_uid = $1 AND us.status = 'active'`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var sub models.UserSubscription
	var pkg models.SubscriptionPackage
	var expiresAt sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.PackageID, &sub.Status, &sub.StartedAt, &expiresAt,
		&sub.ProductsUsed, &sub.CreatedAt, &sub.UpdatedAt,
		&pkg.ID, &pkg.Name, &pkg.NameAr, &pkg.Description, &pkg.Price, &pkg.MaxProducts,
		&pkg.DurationDays, &pkg.IsActive, &pkg.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiresAt.Valid {
		sub.ExpiresAt = &expiresAt.Time
	}
	sub.Package = &pkg
	return &sub, nil
}

// PurchaseSubscription создает новую активную подписку пользователя на
// пакет. Выполняется в транзакции: текущая активная подписка (если есть)
// отменяется, чтобы инвариант "не более одной активной" не нарушался.
func (s *Storage) PurchaseSubscription(ctx context.Context, userUID, packageID string, expiresAt time.Time) (string, error) {
	const op = "storage.PurchaseSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`UPDATE user_subscriptions SET status = 'cancelled', updated_at = now()
		 WHERE user_uid = $1 AND status = 'active'`, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO user_subscriptions (user_uid, package_id, status, started_at, expires_at, products_used)
		 VALUES ($1, $2, 'active', now(), $3, 0)
		 RETURNING id`, userUID, packageID, expiresAt).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CancelActiveSubscription переводит активную подписку пользователя в
// статус cancelled. Возвращает количество изменённых строк.
func (s *Storage) CancelActiveSubscription(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CancelActiveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE user_subscriptions SET status = 'cancelled', updated_at = now()
		 WHERE user_uid = $1 AND status = 'active'`, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// MarkSubscriptionExpired переводит подписку в статус expired.
// Используется для ленивого перехода, когда срок действия истёк,
// а строка всё ещё помечена активной.
func (s *Storage) MarkSubscriptionExpired(ctx context.Context, id string) error {
	const op = "storage.MarkSubscriptionExpired"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE user_subscriptions SET status = 'expired', updated_at = now()
		 WHERE id = $1 AND status = 'active'`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PublishProduct создаёт объявление и списывает единицу квоты активной
// подписки продавца в одной транзакции: товар без списания или списание
// без товара невозможны. Строка подписки блокируется через FOR UPDATE,
// поэтому параллельные публикации не превышают лимит пакета.
//
// Истёкшая, но всё ещё помеченная активной подписка лениво переводится
// в статус expired; этот переход фиксируется даже при отказе публикации.
func (s *Storage) PublishProduct(ctx context.Context, product models.Product) (string, error) {
	const op = "storage.PublishProduct"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var subID string
	var expiresAt sql.NullTime
	var productsUsed, maxProducts int
	err = tx.QueryRowContext(ctx,
		`SELECT us.id, us.expires_at, us.products_used, sp.max_products
		 FROM user_subscriptions us
		 JOIN subscription_packages sp ON sp.id = us.package_id
		 WHERE us.user_uid = $1 AND us.status = 'active'
		 FOR UPDATE OF us`, product.SellerUID).
		Scan(&subID, &expiresAt, &productsUsed, &maxProducts)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, errs.ErrNoActiveSubscription)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if expiresAt.Valid && expiresAt.Time.Before(time.Now()) {
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_subscriptions SET status = 'expired', updated_at = now() WHERE id = $1`,
			subID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return "", fmt.Errorf("%s: %w", op, errs.ErrSubscriptionExpired)
	}

	if productsUsed >= maxProducts {
		return "", fmt.Errorf("%s: %w", op, &errs.QuotaExceededError{Limit: maxProducts, Used: productsUsed})
	}

	var newID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO products (seller_uid, category_id, title, description, condition, price, city,
		     brand, model, year, part_number, is_available)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
		 RETURNING id`,
		product.SellerUID, product.CategoryID, product.Title, product.Description, product.Condition,
		product.Price, product.City, product.Brand, product.Model, product.Year, product.PartNumber).
		Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for i, img := range product.Images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, image_url, is_primary, sort_order)
			 VALUES ($1, $2, $3, $4)`,
			newID, img.ImageURL, i == 0, i); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_subscriptions SET products_used = products_used + 1, updated_at = now()
		 WHERE id = $1`, subID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UnpublishProduct снимает объявление продавца с публикации и возвращает
// единицу квоты. Повторное снятие уже снятого товара — no-op: флаг не
// меняется и квота не уменьшается, поэтому products_used не уходит ниже
// нуля. Декремент дополнительно ограничен GREATEST(..., 0).
func (s *Storage) UnpublishProduct(ctx context.Context, productID, sellerUID string) (bool, error) {
	const op = "storage.UnpublishProduct"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE products SET is_available = FALSE, updated_at = now()
		 WHERE id = $1 AND seller_uid = $2 AND is_available = TRUE`,
		productID, sellerUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_subscriptions
		 SET products_used = GREATEST(products_used - 1, 0), updated_at = now()
		 WHERE user_uid = $1 AND status = 'active'`, sellerUID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
