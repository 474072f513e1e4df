// Package register реализует HTTP-обработчик регистрации пользователя.
//
// После успешной регистрации клиент получает USSD-код, которым оплачивается подписка.
package register

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/orange-subscription/internal/http/response"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
	services "github.com/magabrotheeeer/orange-subscription/internal/services/auth"
)

// Request входные данные для регистрации.
type Request struct {
	Username    string `json:"username" validate:"required,max=50"`
	Phone       string `json:"phone" validate:"required,max=20"`
	OrangeMoney string `json:"orange_money" validate:"required,max=20"`
	Password    string `json:"password" validate:"required"`
}

// Response ответ на успешную регистрацию.
type Response struct {
	USSDCode string `json:"ussd_code" example:"*144*10*55713380*500#"`
}

// Handler обрабатывает запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя без подписки и возвращает USSD-код для оплаты.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятое имя"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	code, err := h.service.Register(r.Context(), services.RegisterInput{
		Username:    req.Username,
		Phone:       req.Phone,
		OrangeMoney: req.OrangeMoney,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			log.Info("duplicate identity")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(models.ErrDuplicateIdentity.Error()))
			return
		}
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("user registered")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{USSDCode: code})
}
