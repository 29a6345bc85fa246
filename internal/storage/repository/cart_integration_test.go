package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
)

func TestStorage_UpsertCartItem_NoDuplicates(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
	productID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 120.50, true)

	ctx := context.Background()

	firstID, err := storage.UpsertCartItem(ctx, buyerUID, productID)
	require.NoError(t, err)

	// повторное добавление возвращает ту же строку с количеством 2
	secondID, err := storage.UpsertCartItem(ctx, buyerUID, productID)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)
	verification.VerifyCartItemQuantity(t, firstID, 2)

	items, err := storage.ListCartItems(ctx, buyerUID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestStorage_CartTotal_LivePrices(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
	bumperID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 100.00, true)
	lightID := factory.CreateProduct(t, sellerUID, "Rear light", "Moscow", "new", 40.00, true)
	factory.CreateCartItem(t, buyerUID, bumperID, 2)
	factory.CreateCartItem(t, buyerUID, lightID, 1)

	ctx := context.Background()

	total, err := storage.CartTotal(ctx, buyerUID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("240.00")), "got %s", total)

	// продавец меняет цену, итог следует за ней без изменения корзины
	_, err = storage.DB.Exec(`UPDATE products SET price = 80.00 WHERE id = $1`, bumperID)
	require.NoError(t, err)

	total, err = storage.CartTotal(ctx, buyerUID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("200.00")), "got %s", total)
}

func TestStorage_CartTotal_EmptyCart(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")

	total, err := storage.CartTotal(context.Background(), buyerUID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestStorage_CheckoutCart(t *testing.T) {
	t.Run("successful checkout clears cart", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		verification := NewTestVerification(storage)

		sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
		buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
		bumperID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 100.00, true)
		lightID := factory.CreateProduct(t, sellerUID, "Rear light", "Moscow", "new", 40.00, true)
		factory.CreateCartItem(t, buyerUID, bumperID, 2)
		factory.CreateCartItem(t, buyerUID, lightID, 3)

		itemsCount, total, err := storage.CheckoutCart(context.Background(), buyerUID)
		require.NoError(t, err)
		assert.Equal(t, 2, itemsCount)
		assert.True(t, total.Equal(decimal.RequireFromString("320.00")), "got %s", total)
		verification.VerifyCartEmpty(t, buyerUID)
	})

	t.Run("stale items abort checkout entirely", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
		buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
		okID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 100.00, true)
		staleID := factory.CreateProduct(t, sellerUID, "Rear light", "Moscow", "new", 40.00, false)
		factory.CreateCartItem(t, buyerUID, okID, 1)
		factory.CreateCartItem(t, buyerUID, staleID, 1)

		_, _, err := storage.CheckoutCart(context.Background(), buyerUID)
		require.Error(t, err)

		var stale *errs.StaleCartError
		require.ErrorAs(t, err, &stale)
		assert.Equal(t, []string{staleID}, stale.ProductIDs)

		// корзина не тронута, включая доступные строки
		items, err := storage.ListCartItems(context.Background(), buyerUID)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("empty cart", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")

		_, _, err := storage.CheckoutCart(context.Background(), buyerUID)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestStorage_UpdateCartItemQuantity_ForeignUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
	otherUID := factory.CreateUser(t, "other", "other@example.com", "buyer")
	productID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 100.00, true)
	itemID := factory.CreateCartItem(t, buyerUID, productID, 1)

	// чужая строка не меняется
	count, err := storage.UpdateCartItemQuantity(context.Background(), otherUID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	verification.VerifyCartItemQuantity(t, itemID, 1)
}

func TestStorage_DeleteCartItem_Idempotent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	sellerUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	buyerUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
	productID := factory.CreateProduct(t, sellerUID, "Front bumper", "Moscow", "used", 100.00, true)
	itemID := factory.CreateCartItem(t, buyerUID, productID, 1)

	ctx := context.Background()
	require.NoError(t, storage.DeleteCartItem(ctx, buyerUID, itemID))
	require.NoError(t, storage.DeleteCartItem(ctx, buyerUID, itemID))
}
