// Package middlewarectx содержит HTTP middleware сервиса: проверку ключа
// администратора и ограничение частоты запросов.
package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/orange-subscription/internal/http/response"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

// APIKeyHeader заголовок с ключом администратора.
const APIKeyHeader = "X-API-KEY"

// APIKeyMiddleware пропускает запрос только при совпадении заголовка X-API-KEY с key.
// Пустой key закрывает доступ полностью.
func APIKeyMiddleware(key string, log *slog.Logger) func(http.Handler) http.Handler {
	expected := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.APIKeyMiddleware"

			got := []byte(r.Header.Get(APIKeyHeader))
			if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				log.Warn("admin key rejected",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("remote_addr", r.RemoteAddr),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(models.ErrUnauthorized.Error()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
