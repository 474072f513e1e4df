// Package home реализует корневой обработчик, сообщающий о состоянии сервиса.
package home

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
)

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность базы данных.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response ответ корневого обработчика.
type Response struct {
	Status   string `json:"status" example:"Server is running"`
	Database string `json:"database" example:"connected"`
}

// Handler отвечает на GET / и сообщает, доступна ли база данных.
type Handler struct {
	log *slog.Logger
	db  Pinger
}

// New создает Handler, который проверяет базу через db.
func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

// ServeHTTP godoc
// @Summary Состояние сервиса
// @Tags Health
// @Produce  json
// @Success 200 {object} Response
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.home"

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	database := "connected"
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database ping failed", slog.String("op", op), sl.Err(err))
		database = "unavailable"
	}

	render.JSON(w, r, Response{
		Status:   "Server is running",
		Database: database,
	})
}
