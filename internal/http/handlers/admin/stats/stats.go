// Package stats реализует HTTP-обработчик сводки для администратора.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/orange-subscription/internal/http/response"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

// Service описывает получение сводки по пользователям.
type Service interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// Handler обрабатывает запрос сводки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка по подпискам
// @Description Возвращает число пользователей, число активных подписок и список пользователей.
// @Tags Admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} models.Stats
// @Failure 401 {object} response.ErrorResponse "Неверный ключ"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to build stats", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("stats built", slog.Int("total", res.Total), slog.Int("actifs", res.Active))
	render.JSON(w, r, res)
}
