package login

import (
	"context"

	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

// Service проверяет учётные данные.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// Viewer вычисляет актуальный статус подписки для ответа.
type Viewer interface {
	View(ctx context.Context, u *models.User) (models.UserView, error)
}
