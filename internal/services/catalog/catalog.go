// Package catalog содержит бизнес-логику чтения каталога товаров:
// поиск с фильтрами, чтение карточки товара с кешированием и учёт
// просмотров.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// ProductRepository определяет методы чтения каталога в хранилище.
type ProductRepository interface {
	// SearchProducts возвращает доступные товары по фильтру.
	SearchProducts(ctx context.Context, filter models.SearchFilter) ([]*models.Product, error)
	// GetProduct возвращает товар по ID вместе с изображениями.
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// IncrementViews атомарно увеличивает счётчик просмотров на единицу.
	IncrementViews(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService реализует операции чтения каталога.
type CatalogService struct {
	repo  ProductRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр CatalogService.
func New(repo ProductRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Search возвращает доступные товары по фильтру. Текстовый фильтр из
// одних пробелов эквивалентен отсутствию фильтра. Сбой хранилища
// оборачивается в errs.ErrCatalogUnavailable: вызывающая сторона может
// показать предыдущий результат и повторить запрос.
func (s *CatalogService) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Product, error) {
	filter.Term = strings.TrimSpace(filter.Term)

	products, err := s.repo.SearchProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCatalogUnavailable, err)
	}
	return products, nil
}

// Get возвращает карточку товара, используя кеш или репозиторий.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	var result *models.Product
	cacheKey := fmt.Sprintf("product:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read product from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// RegisterView учитывает просмотр товара. Операция не влияет на основное
// действие пользователя: ошибка учёта логируется и отбрасывается, наружу
// ничего не возвращается. Сам инкремент выполняется хранилищем атомарно.
func (s *CatalogService) RegisterView(ctx context.Context, id string) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.log.Warn("failed to register product view", slog.String("product_id", id), sl.Err(err))
	}
}
