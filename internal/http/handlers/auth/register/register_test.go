package register

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

	"github.com/scanhub/barcode-aggregator/internal/models"
	"github.com/scanhub/barcode-aggregator/internal/storage/repository"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, name, lastName, email, rawPassword string) (*models.User, error) {
	args := m.Called(ctx, name, lastName, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"name":"Ivan","last_name":"Petrov","email":"ivan@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				user := &models.User{
					ID:    "3f1c9a64-2e7b-4f0c-8d15-6a9b0c4e7d21",
					Email: "ivan@example.com",
					Name:  "Ivan",
				}
				m.On("Register", mock.Anything, "Ivan", "Petrov", "ivan@example.com", "secret123").
					Return(user, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"email":"ivan@example.com"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"name":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode request"`,
		},
		{
			name:           "некорректный email и короткий пароль",
			body:           `{"name":"Ivan","email":"not-an-email","password":"123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Email must be a valid email`,
		},
		{
			name: "пользователь уже существует",
			body: `{"name":"Ivan","email":"ivan@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Ivan", "", "ivan@example.com", "secret123").
					Return(nil, repository.ErrUserExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"user already exists"`,
		},
		{
			name: "ошибка сервиса регистрации",
			body: `{"name":"Ivan","email":"ivan@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Ivan", "", "ivan@example.com", "secret123").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not register user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
