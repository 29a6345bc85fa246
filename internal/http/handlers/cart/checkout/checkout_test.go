package checkout

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// MockService реализует интерфейс checkout.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Checkout(ctx context.Context, userUID string) (*models.OrderConfirmation, error) {
	args := m.Called(ctx, userUID)
	confirmation, _ := args.Get(0).(*models.OrderConfirmation)
	return confirmation, args.Error(1)
}

func TestCheckoutHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное оформление",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u1").Return(&models.OrderConfirmation{
					OrderNumber: "ord-1",
					UserUID:     "u1",
					ItemsCount:  2,
					Total:       decimal.RequireFromString("120.00"),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"order_number":"ord-1"`,
		},
		{
			name:           "нет идентификации пользователя",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "корзина содержит недоступные товары",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u1").
					Return(nil, &errs.StaleCartError{ProductIDs: []string{"p1", "p3"}})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `cart contains unavailable products`,
		},
		{
			name:    "пустая корзина",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Checkout", mock.Anything, "u1").Return(nil, errs.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"status":"Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
