package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/scanhub/barcode-aggregator/internal/http/middlewarectx"
	"github.com/scanhub/barcode-aggregator/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userID string) ([]*models.UserProduct, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]*models.UserProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUserProductListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const userID = "3f1c9a64-2e7b-4f0c-8d15-6a9b0c4e7d21"

	tests := []struct {
		name           string
		withIdentity   bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "успешный список товаров пользователя",
			withIdentity: true,
			setupMock: func(m *MockService) {
				products := []*models.UserProduct{
					{ID: "11111111-1111-4111-8111-111111111111", Barcode: "4601234567890", Stock: 5, UserID: userID},
				}
				m.On("List", mock.Anything, userID).Return(products, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"stock":5`,
		},
		{
			name:           "нет личности в контексте",
			withIdentity:   false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:         "ошибка сервиса списка",
			withIdentity: true,
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, userID).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not list user products"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/user-products", nil)
			if tt.withIdentity {
				ctx := context.WithValue(req.Context(), middlewarectx.UserID, userID)
				ctx = context.WithValue(ctx, middlewarectx.Email, "ivan@example.com")
				req = req.WithContext(ctx)
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
