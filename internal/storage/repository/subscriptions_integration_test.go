package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

func testProduct(sellerUID, title string) models.Product {
	return models.Product{
		SellerUID: sellerUID,
		Title:     title,
		Condition: models.ConditionUsed,
		City:      "Moscow",
	}
}

func TestStorage_PublishProduct_QuotaWalk(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	packageID := factory.CreatePackage(t, "Starter", 2, 30, true)
	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	subID := factory.CreateSubscription(t, sellerUID, packageID, "active", &expiresAt, 0)

	ctx := context.Background()

	// публикации в пределах квоты проходят
	_, err := storage.PublishProduct(ctx, testProduct(sellerUID, "Front bumper"))
	require.NoError(t, err)
	firstID, err := storage.PublishProduct(ctx, testProduct(sellerUID, "Rear light"))
	require.NoError(t, err)
	verification.VerifyProductsUsed(t, subID, 2)

	// третья публикация превышает лимит пакета
	_, err = storage.PublishProduct(ctx, testProduct(sellerUID, "Gearbox"))
	require.Error(t, err)
	var quota *errs.QuotaExceededError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, 2, quota.Limit)
	assert.Equal(t, 2, quota.Used)
	verification.VerifyProductsUsed(t, subID, 2)

	// снятие с публикации возвращает единицу квоты
	changed, err := storage.UnpublishProduct(ctx, firstID, sellerUID)
	require.NoError(t, err)
	assert.True(t, changed)
	verification.VerifyProductsUsed(t, subID, 1)

	// теперь публикация снова проходит
	_, err = storage.PublishProduct(ctx, testProduct(sellerUID, "Gearbox"))
	require.NoError(t, err)
	verification.VerifyProductsUsed(t, subID, 2)
}

func TestStorage_PublishProduct_NoSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")

	_, err := storage.PublishProduct(context.Background(), testProduct(sellerUID, "Front bumper"))
	assert.ErrorIs(t, err, errs.ErrNoActiveSubscription)
}

func TestStorage_PublishProduct_ExpiredSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	packageID := factory.CreatePackage(t, "Starter", 10, 30, true)
	expiredAt := time.Now().Add(-time.Hour)
	subID := factory.CreateSubscription(t, sellerUID, packageID, "active", &expiredAt, 3)

	_, err := storage.PublishProduct(context.Background(), testProduct(sellerUID, "Front bumper"))
	assert.ErrorIs(t, err, errs.ErrSubscriptionExpired)

	// ленивый переход в expired зафиксирован несмотря на отказ публикации
	verification.VerifySubscriptionStatus(t, subID, "expired")
}

func TestStorage_UnpublishProduct_Idempotent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	packageID := factory.CreatePackage(t, "Starter", 5, 30, true)
	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	subID := factory.CreateSubscription(t, sellerUID, packageID, "active", &expiresAt, 1)
	productID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 120.50, true)

	ctx := context.Background()

	changed, err := storage.UnpublishProduct(ctx, productID, sellerUID)
	require.NoError(t, err)
	assert.True(t, changed)
	verification.VerifyProductsUsed(t, subID, 0)

	// повторное снятие не трогает квоту, products_used не уходит ниже нуля
	changed, err = storage.UnpublishProduct(ctx, productID, sellerUID)
	require.NoError(t, err)
	assert.False(t, changed)
	verification.VerifyProductsUsed(t, subID, 0)
}

func TestStorage_UnpublishProduct_ForeignSeller(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	otherUID := factory.CreateUser(t, "other", "other@example.com", "merchant")
	productID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 120.50, true)

	// чужое объявление снять нельзя
	changed, err := storage.UnpublishProduct(context.Background(), productID, otherUID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStorage_PurchaseSubscription_ReplacesActive(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	userUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	starterID := factory.CreatePackage(t, "Starter", 2, 30, true)
	proID := factory.CreatePackage(t, "Pro", 200, 30, true)
	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	oldSubID := factory.CreateSubscription(t, userUID, starterID, "active", &expiresAt, 1)

	newSubID, err := storage.PurchaseSubscription(context.Background(), userUID, proID, expiresAt)
	require.NoError(t, err)

	verification.VerifySubscriptionStatus(t, oldSubID, "cancelled")
	verification.VerifySubscriptionStatus(t, newSubID, "active")

	sub, err := storage.GetActiveSubscription(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, newSubID, sub.ID)
	assert.Equal(t, 200, sub.Package.MaxProducts)
	assert.Equal(t, 0, sub.ProductsUsed)
}

func TestStorage_GetActiveSubscription_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")

	_, err := storage.GetActiveSubscription(context.Background(), userUID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStorage_ListPackages_OnlyActive(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreatePackage(t, "Starter", 10, 30, true)
	factory.CreatePackage(t, "Legacy", 5, 30, false)

	got, err := storage.ListPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Starter", got[0].Name)
}
