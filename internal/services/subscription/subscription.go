// Package subscription содержит бизнес-логику тарифных пакетов и подписок
// продавцов: каталог пакетов, покупка, текущая подписка и отмена.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// SubscriptionRepository определяет методы работы с подписками в хранилище.
type SubscriptionRepository interface {
	// ListPackages возвращает предлагаемые к покупке пакеты.
	ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error)
	// GetPackage возвращает пакет по ID.
	GetPackage(ctx context.Context, id string) (*models.SubscriptionPackage, error)
	// GetActiveSubscription возвращает активную подписку пользователя с пакетом.
	GetActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, error)
	// PurchaseSubscription создает активную подписку, отменяя предыдущую.
	PurchaseSubscription(ctx context.Context, userUID, packageID string, expiresAt time.Time) (string, error)
	// CancelActiveSubscription отменяет активную подписку.
	CancelActiveSubscription(ctx context.Context, userUID string) (int, error)
	// MarkSubscriptionExpired лениво переводит подписку в статус expired.
	MarkSubscriptionExpired(ctx context.Context, id string) error
}

// SubscriptionService реализует операции над подписками продавцов.
// Оплата пакета в текущей версии только имитируется: покупка сразу
// создает активную подписку.
type SubscriptionService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// New создает новый экземпляр SubscriptionService.
func New(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

// ListPackages возвращает предлагаемые к покупке тарифные пакеты.
func (s *SubscriptionService) ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error) {
	return s.repo.ListPackages(ctx)
}

// Purchase оформляет подписку пользователя на пакет. Предыдущая активная
// подписка отменяется: у пользователя не более одной активной подписки.
func (s *SubscriptionService) Purchase(ctx context.Context, userUID string, req models.DummyPurchase) (string, error) {
	pkg, err := s.repo.GetPackage(ctx, req.PackageID)
	if err != nil {
		return "", err
	}
	if !pkg.IsActive {
		return "", fmt.Errorf("package %s is not offered: %w", req.PackageID, errs.ErrNotFound)
	}

	expiresAt := time.Now().UTC().AddDate(0, 0, pkg.DurationDays)
	id, err := s.repo.PurchaseSubscription(ctx, userUID, pkg.ID, expiresAt)
	if err != nil {
		return "", err
	}

	s.log.Info("purchased subscription package",
		slog.String("user_uid", userUID),
		slog.String("package", pkg.Name),
		slog.Int("max_products", pkg.MaxProducts))
	return id, nil
}

// Current возвращает активную подписку пользователя. Если срок действия
// уже истёк, подписка лениво переводится в статус expired и возвращается
// errs.ErrSubscriptionExpired, чтобы устаревшая строка не продолжала
// считаться активной при каждом чтении.
func (s *SubscriptionService) Current(ctx context.Context, userUID string) (*models.UserSubscription, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrNoActiveSubscription
		}
		return nil, err
	}

	if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
		if err := s.repo.MarkSubscriptionExpired(ctx, sub.ID); err != nil {
			s.log.Warn("failed to mark subscription expired", slog.String("id", sub.ID))
		}
		return nil, errs.ErrSubscriptionExpired
	}
	return sub, nil
}

// Cancel отменяет активную подписку пользователя.
func (s *SubscriptionService) Cancel(ctx context.Context, userUID string) error {
	count, err := s.repo.CancelActiveSubscription(ctx, userUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrNoActiveSubscription
	}

	s.log.Info("cancelled subscription", slog.String("user_uid", userUID))
	return nil
}
