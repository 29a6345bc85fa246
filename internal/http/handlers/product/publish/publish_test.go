package publish

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// MockService реализует интерфейс publish.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Publish(ctx context.Context, sellerUID string, req models.DummyProduct) (string, error) {
	args := m.Called(ctx, sellerUID, req)
	return args.String(0), args.Error(1)
}

func TestPublishHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"title":"Front bumper","condition":"used","price":120.5,"city":"Moscow"}`

	tests := []struct {
		name           string
		body           string
		sellerUID      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешная публикация",
			body:      validBody,
			sellerUID: "seller1",
			setupMock: func(m *MockService) {
				m.On("Publish", mock.Anything, "seller1", mock.Anything).Return("prod1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"product_id":"prod1"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"title":`,
			sellerUID:      "seller1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "отсутствуют обязательные поля",
			body:           `{"title":"Front bumper"}`,
			sellerUID:      "seller1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `required field`,
		},
		{
			name:      "квота исчерпана",
			body:      validBody,
			sellerUID: "seller1",
			setupMock: func(m *MockService) {
				m.On("Publish", mock.Anything, "seller1", mock.Anything).
					Return("", &errs.QuotaExceededError{Limit: 10, Used: 10})
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `subscription quota exceeded`,
		},
		{
			name:      "нет активной подписки",
			body:      validBody,
			sellerUID: "seller1",
			setupMock: func(m *MockService) {
				m.On("Publish", mock.Anything, "seller1", mock.Anything).
					Return("", errs.ErrNoActiveSubscription)
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `no active subscription`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.sellerUID))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
