// Package checkstatus реализует HTTP-обработчик проверки статуса подписки по имени пользователя.
//
// Проверка пересчитывает 30-дневное окно и сохраняет истечение, если оно наступило.
package checkstatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/orange-subscription/internal/http/response"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

// Service описывает интерфейс бизнес-логики проверки статуса.
type Service interface {
	Status(ctx context.Context, username string) (bool, error)
}

// Response ответ со статусом подписки.
type Response struct {
	IsSubscribed bool `json:"is_subscribed"`
}

// Handler обрабатывает запросы на проверку статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает актуальный статус подписки пользователя.
// @Tags Subscription
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/check-status/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.checkstatus"

	username := chi.URLParam(r, "username")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("username", username),
	)

	active, err := h.service.Status(r.Context(), username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("user not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error(models.ErrNotFound.Error()))
			return
		}
		log.Error("failed to check subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Debug("status checked", slog.Bool("is_subscribed", active))
	render.JSON(w, r, Response{IsSubscribed: active})
}
