package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) UpsertCartItem(ctx context.Context, userUID, productID string) (string, error) {
	args := m.Called(ctx, userUID, productID)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) UpdateCartItemQuantity(ctx context.Context, userUID, itemID string, quantity int) (int, error) {
	args := m.Called(ctx, userUID, itemID, quantity)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteCartItem(ctx context.Context, userUID, itemID string) error {
	return m.Called(ctx, userUID, itemID).Error(0)
}
func (m *RepoMock) ListCartItems(ctx context.Context, userUID string) ([]*models.CartItem, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CartItem), args.Error(1)
}
func (m *RepoMock) CartTotal(ctx context.Context, userUID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *RepoMock) CheckoutCart(ctx context.Context, userUID string) (int, decimal.Decimal, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Get(1).(decimal.Decimal), args.Error(2)
}
func (m *RepoMock) IsProductAvailable(ctx context.Context, productID string) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCartService_Add(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		wantErr   error
	}{
		{name: "available product is added", available: true},
		{name: "unavailable product is rejected", available: false, wantErr: errs.ErrProductUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, new(PublisherMock), newNoopLogger())

			repo.On("IsProductAvailable", mock.Anything, "p1").Return(tt.available, nil).Once()
			if tt.available {
				repo.On("UpsertCartItem", mock.Anything, "u1", "p1").Return("item1", nil).Once()
			}

			id, err := svc.Add(context.Background(), "u1", "p1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpsertCartItem", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "item1", id)
			repo.AssertExpectations(t)
		})
	}
}

func TestCartService_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		rows     int
		wantErr  error
	}{
		{name: "valid quantity", quantity: 3, rows: 1},
		{name: "zero quantity rejected", quantity: 0, wantErr: errs.ErrInvalidQuantity},
		{name: "negative quantity rejected", quantity: -2, wantErr: errs.ErrInvalidQuantity},
		{name: "missing line", quantity: 2, rows: 0, wantErr: errs.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, new(PublisherMock), newNoopLogger())

			if tt.quantity >= 1 {
				repo.On("UpdateCartItemQuantity", mock.Anything, "u1", "item1", tt.quantity).
					Return(tt.rows, nil).Once()
			}

			err := svc.UpdateQuantity(context.Background(), "u1", "item1", tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}

	// при невалидном количестве хранилище не трогаем
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), newNoopLogger())
	_ = svc.UpdateQuantity(context.Background(), "u1", "item1", 0)
	repo.AssertNotCalled(t, "UpdateCartItemQuantity",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_Remove_Idempotent(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), newNoopLogger())

	repo.On("DeleteCartItem", mock.Anything, "u1", "gone").Return(nil).Twice()

	require.NoError(t, svc.Remove(context.Background(), "u1", "gone"))
	require.NoError(t, svc.Remove(context.Background(), "u1", "gone"))
	repo.AssertExpectations(t)
}

func TestCartService_Total_LivePrices(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), newNoopLogger())

	// цена изменилась между двумя просмотрами — итог следует за ней
	repo.On("CartTotal", mock.Anything, "u1").
		Return(decimal.RequireFromString("120.50"), nil).Once()
	repo.On("CartTotal", mock.Anything, "u1").
		Return(decimal.RequireFromString("95.00"), nil).Once()

	first, err := svc.Total(context.Background(), "u1")
	require.NoError(t, err)
	second, err := svc.Total(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, first.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, second.Equal(decimal.RequireFromString("95.00")))
}

func TestCartService_Checkout_Success(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	svc := New(repo, publisher, newNoopLogger())

	total := decimal.RequireFromString("340.00")
	repo.On("CheckoutCart", mock.Anything, "u1").Return(3, total, nil).Once()
	publisher.On("Publish", "order.confirmed", mock.Anything).Return(nil).Once()

	confirmation, err := svc.Checkout(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, confirmation.OrderNumber)
	assert.Equal(t, 3, confirmation.ItemsCount)
	assert.True(t, confirmation.Total.Equal(total))
	publisher.AssertExpectations(t)
}

func TestCartService_Checkout_StaleCart(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	svc := New(repo, publisher, newNoopLogger())

	staleErr := &errs.StaleCartError{ProductIDs: []string{"p1", "p3"}}
	repo.On("CheckoutCart", mock.Anything, "u1").
		Return(0, decimal.Zero, staleErr).Once()

	_, err := svc.Checkout(context.Background(), "u1")
	require.Error(t, err)

	var stale *errs.StaleCartError
	require.ErrorAs(t, err, &stale)
	assert.ElementsMatch(t, []string{"p1", "p3"}, stale.ProductIDs)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
