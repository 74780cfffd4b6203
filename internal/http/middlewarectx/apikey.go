// Package middlewarectx содержит HTTP middleware сервиса: проверку статического
// API-ключа публичного каталога, проверку JWT токена сессии, ограничение
// частоты запросов и сбор метрик.
package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/scanhub/barcode-aggregator/internal/http/response"
)

// APIKeyHeader — заголовок со статическим ключом публичного API.
const APIKeyHeader = "x-api-key"

// APIKeyMiddleware возвращает middleware, которое сверяет заголовок x-api-key
// с ключом из конфига. Отсутствие ключа и несовпадение дают одинаковый 401;
// присланное значение в ответ не попадает.
func APIKeyMiddleware(apiKey string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.APIKeyMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			got := r.Header.Get(APIKeyHeader)
			if got == "" {
				log.Error("api key header is missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("api key required"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				log.Error("api key mismatch")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid api key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
