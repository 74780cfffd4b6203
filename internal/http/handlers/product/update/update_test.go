package update

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/scanhub/barcode-aggregator/internal/models"
	productservice "github.com/scanhub/barcode-aggregator/internal/services/product"
	"github.com/scanhub/barcode-aggregator/internal/storage/repository"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id string, patch models.ProductPatch, image *productservice.ImageUpload) (*models.Product, error) {
	args := m.Called(ctx, id, patch, image)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func strptr(s string) *string { return &s }

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const productID = "8b7c3e6a-1f7d-4a8f-9a36-0f6f4c2d9a10"

	tests := []struct {
		name           string
		id             string
		fields         map[string]string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное обновление названия",
			id:     productID,
			fields: map[string]string{"name": "Kefir"},
			setupMock: func(m *MockService) {
				product := &models.Product{ID: productID, Barcode: "4601234567890", Name: "Kefir"}
				m.On("Update", mock.Anything, productID,
					models.ProductPatch{Name: strptr("Kefir")}, (*productservice.ImageUpload)(nil)).
					Return(product, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Kefir"`,
		},
		{
			name:           "некорректный id в URL",
			id:             "42",
			fields:         map[string]string{"name": "Kefir"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid product id"`,
		},
		{
			name:   "пустой набор изменений",
			id:     productID,
			fields: map[string]string{},
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, productID,
					models.ProductPatch{}, (*productservice.ImageUpload)(nil)).
					Return(nil, repository.ErrEmptyPatch)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"no fields to update"`,
		},
		{
			name:   "товар не найден",
			id:     productID,
			fields: map[string]string{"barcode": "000"},
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, productID,
					models.ProductPatch{Barcode: strptr("000")}, (*productservice.ImageUpload)(nil)).
					Return(nil, repository.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"product not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			for key, value := range tt.fields {
				assert.NoError(t, writer.WriteField(key, value))
			}
			assert.NoError(t, writer.Close())

			req := httptest.NewRequest(http.MethodPut, "/products/"+tt.id, body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
