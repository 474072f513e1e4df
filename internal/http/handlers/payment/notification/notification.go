// Package notification реализует приём уведомлений Orange Money об оплате.
//
// Тело запроса принимается как произвольный текст. Если в нём найден номер
// плательщика, принадлежащий зарегистрированному пользователю, его подписка
// активируется.
package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/orange-subscription/internal/http/response"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

// MaxBodySize сколько байт тела уведомления разбирается. Остаток игнорируется.
const MaxBodySize = 64 << 10

// Service описывает обработку уведомления об оплате.
type Service interface {
	HandlePayment(ctx context.Context, raw []byte) (string, error)
}

// Response ответ на принятое уведомление.
type Response struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Compte 70123456 active"`
}

// Handler обрабатывает уведомления об оплате.
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
// @Summary Уведомление об оплате
// @Description Принимает текст SMS Orange Money и активирует подписку плательщика.
// @Tags Payment
// @Accept  plain
// @Produce  json
// @Param message body string true "Текст уведомления"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Сообщение не распознано"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.notification"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	raw, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize))
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(models.ErrUnrecognizedPayload.Error()))
		return
	}

	payer, err := h.service.HandlePayment(r.Context(), raw)
	if err != nil {
		if errors.Is(err, models.ErrUnrecognizedPayload) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(models.ErrUnrecognizedPayload.Error()))
			return
		}
		log.Error("failed to handle payment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, Response{
		Status:  "success",
		Message: fmt.Sprintf("Compte %s active", payer),
	})
}
