// Package product содержит бизнес-логику объявлений продавца: публикация
// под контролем квоты подписки, снятие с публикации с возвратом квоты,
// редактирование и список для кабинета.
package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// ProductRepository определяет методы работы с объявлениями в хранилище.
type ProductRepository interface {
	// PublishProduct создаёт объявление и списывает единицу квоты
	// в одной транзакции.
	PublishProduct(ctx context.Context, product models.Product) (string, error)
	// UnpublishProduct снимает объявление с публикации и возвращает
	// единицу квоты; сообщает, изменился ли флаг.
	UnpublishProduct(ctx context.Context, productID, sellerUID string) (bool, error)
	// UpdateProduct обновляет поля объявления продавца.
	UpdateProduct(ctx context.Context, product models.Product, sellerUID string) (int, error)
	// ListProductsBySeller возвращает все объявления продавца.
	ListProductsBySeller(ctx context.Context, sellerUID string) ([]*models.Product, error)
}

// Cache описывает методы для инвалидации кеша карточек товаров.
type Cache interface {
	Invalidate(key string) error
}

// SellerStats агрегирует показатели кабинета продавца.
type SellerStats struct {
	TotalProducts  int `json:"total_products"`  // Всего объявлений
	ActiveProducts int `json:"active_products"` // Опубликованных сейчас
	TotalViews     int `json:"total_views"`     // Суммарные просмотры
}

// ProductService реализует операции продавца над объявлениями.
type ProductService struct {
	repo  ProductRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр ProductService.
func New(repo ProductRepository, cache Cache, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Publish публикует новое объявление продавца. Проверка подписки,
// создание товара и списание квоты выполняются хранилищем в одной
// транзакции; отказы приходят типизированными ошибками errs.
func (s *ProductService) Publish(ctx context.Context, sellerUID string, req models.DummyProduct) (string, error) {
	product := buildProduct(req)
	product.SellerUID = sellerUID

	id, err := s.repo.PublishProduct(ctx, product)
	if err != nil {
		return "", err
	}

	s.log.Info("published product",
		slog.String("seller_uid", sellerUID), slog.String("product_id", id))
	return id, nil
}

// Unpublish снимает объявление с публикации. Квота уменьшается только
// когда флаг действительно сброшен, поэтому повторный вызов безопасен.
func (s *ProductService) Unpublish(ctx context.Context, sellerUID, productID string) error {
	changed, err := s.repo.UnpublishProduct(ctx, productID, sellerUID)
	if err != nil {
		return err
	}
	if !changed {
		s.log.Info("product already unpublished", slog.String("product_id", productID))
		return nil
	}

	s.invalidate(productID)
	s.log.Info("unpublished product",
		slog.String("seller_uid", sellerUID), slog.String("product_id", productID))
	return nil
}

// Update обновляет поля объявления продавца.
func (s *ProductService) Update(ctx context.Context, sellerUID, productID string, req models.DummyProduct) error {
	product := buildProduct(req)
	product.ID = productID

	count, err := s.repo.UpdateProduct(ctx, product, sellerUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("product %s: %w", productID, errs.ErrNotFound)
	}

	s.invalidate(productID)
	s.log.Info("updated product", slog.String("product_id", productID))
	return nil
}

// ListBySeller возвращает объявления продавца вместе с агрегированными
// показателями для кабинета.
func (s *ProductService) ListBySeller(ctx context.Context, sellerUID string) ([]*models.Product, SellerStats, error) {
	products, err := s.repo.ListProductsBySeller(ctx, sellerUID)
	if err != nil {
		return nil, SellerStats{}, err
	}

	var stats SellerStats
	stats.TotalProducts = len(products)
	for _, p := range products {
		stats.TotalViews += p.ViewsCount
		if p.IsAvailable {
			stats.ActiveProducts++
		}
	}
	return products, stats, nil
}

func (s *ProductService) invalidate(productID string) {
	cacheKey := fmt.Sprintf("product:%s", productID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate product cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

func buildProduct(req models.DummyProduct) models.Product {
	product := models.Product{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Condition:   req.Condition,
		Price:       decimal.NewFromFloat(req.Price),
		City:        req.City,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		PartNumber:  req.PartNumber,
		IsAvailable: true,
		CreatedAt:   time.Now().UTC(),
	}
	for _, url := range req.ImageURLs {
		product.Images = append(product.Images, models.ProductImage{ImageURL: url})
	}
	return product
}
