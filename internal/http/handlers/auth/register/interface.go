package register

import (
	"context"

	services "github.com/magabrotheeeer/orange-subscription/internal/services/auth"
)

// Service описывает регистрацию пользователя.
type Service interface {
	Register(ctx context.Context, in services.RegisterInput) (string, error)
}
