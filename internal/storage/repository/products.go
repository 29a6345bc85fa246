package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// SearchProducts возвращает доступные товары, отфильтрованные по тексту,
// городу и состоянию. Все фильтры соединяются через AND, пустое значение
// фильтра означает отсутствие ограничения. Текст ищется без учёта
// регистра по названию, описанию и марке. Сортировка — по дате создания,
// сначала новые.
func (s *Storage) SearchProducts(ctx context.Context, filter models.SearchFilter) ([]*models.Product, error) {
	const op = "storage.SearchProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, seller_uid, category_id, title, description, condition, price, city,
			      brand, model, year, part_number, is_available, views_count, created_at, updated_at
			  FROM products
			  WHERE is_available = TRUE
			    AND ($1 = '' OR title ILIKE '%' || $1 || '%'
			                 OR description ILIKE '%' || $1 || '%'
			                 OR brand ILIKE '%' || $1 || '%')
			    AND ($2 = '' OR city = $2)
			    AND ($3 = '' OR condition = $3)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, filter.Term, filter.City, filter.Condition)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Product
	for rows.Next() {
		item, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProduct возвращает товар по ID вместе с изображениями.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, seller_uid, category_id, title, description, condition, price, city,
			      brand, model, year, part_number, is_available, views_count, created_at, updated_at
			  FROM products WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	item, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	images, err := s.listProductImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	item.Images = images
	return item, nil
}

// IncrementViews атомарно увеличивает счётчик просмотров товара на единицу.
// Инкремент выражен одной дельта-операцией в базе: параллельные просмотры
// не теряют обновления, как при чтении счётчика и записи count+1 из кода.
func (s *Storage) IncrementViews(ctx context.Context, id string) error {
	const op = "storage.IncrementViews"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products SET views_count = views_count + 1 WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// UpdateProduct обновляет поля объявления. Меняет только товары,
// принадлежащие продавцу sellerUID, и возвращает количество изменённых строк.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product, sellerUID string) (int, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET title = $1, description = $2, condition = $3, price = $4, city = $5,
			      category_id = $6, brand = $7, model = $8, year = $9, part_number = $10,
			      updated_at = now()
			  WHERE id = $11 AND seller_uid = $12`
	result, err := s.DB.ExecContext(ctx, query,
		product.Title, product.Description, product.Condition, product.Price, product.City,
		product.CategoryID, product.Brand, product.Model, product.Year, product.PartNumber,
		product.ID, sellerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListProductsBySeller возвращает все объявления продавца, сначала новые.
func (s *Storage) ListProductsBySeller(ctx context.Context, sellerUID string) ([]*models.Product, error) {
	const op = "storage.ListProductsBySeller"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, seller_uid, category_id, title, description, condition, price, city,
			      brand, model, year, part_number, is_available, views_count, created_at, updated_at
			  FROM products
			  WHERE seller_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, sellerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Product
	for rows.Next() {
		item, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// listProductImages возвращает изображения товара в порядке отображения.
func (s *Storage) listProductImages(ctx context.Context, productID string) ([]models.ProductImage, error) {
	query := `SELECT id, product_id, image_url, is_primary, sort_order, created_at
			  FROM product_images
			  WHERE product_id = $1
			  ORDER BY sort_order, created_at`
	rows, err := s.DB.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []models.ProductImage
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.IsPrimary,
			&img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	return result, rows.Err()
}

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var item models.Product
	var categoryID sql.NullString
	var year sql.NullInt64
	if err := row.Scan(&item.ID, &item.SellerUID, &categoryID, &item.Title, &item.Description,
		&item.Condition, &item.Price, &item.City, &item.Brand, &item.Model, &year,
		&item.PartNumber, &item.IsAvailable, &item.ViewsCount, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		item.CategoryID = &categoryID.String
	}
	if year.Valid {
		y := int(year.Int64)
		item.Year = &y
	}
	return &item, nil
}
