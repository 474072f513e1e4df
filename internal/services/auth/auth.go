// Package services содержит логику регистрации и аутентификации пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/orange-subscription/internal/lib/password"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/orange-subscription/internal/metrics"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int, error)

	// GetUserByUsername возвращает пользователя по имени или models.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// RegisterInput данные для регистрации.
type RegisterInput struct {
	Username    string
	Phone       string
	OrangeMoney string
	Password    string
}

// AuthService отвечает за регистрацию и проверку учётных данных.
// Токены не выдаются: успешный вход возвращает самого пользователя.
type AuthService struct {
	users    UserRepository
	ussdCode string
	log      *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создает новый экземпляр AuthService.
// ussdCode возвращается клиенту после регистрации как инструкция к оплате.
func NewAuthService(users UserRepository, ussdCode string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		ussdCode: ussdCode,
		log:      log,
	}
}

// Register создает пользователя без подписки и возвращает USSD-код оплаты.
// Занятое имя пользователя (или телефон) дают models.ErrDuplicateIdentity.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "services.auth.Register"
	log := s.log.With(slog.String("op", op), slog.String("username", in.Username))

	_, err := s.users.GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		log.Info("username already taken")
		metrics.IncRegistration("duplicate")
		return "", models.ErrDuplicateIdentity
	case !errors.Is(err, models.ErrNotFound):
		metrics.IncRegistration("error")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		metrics.IncRegistration("error")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     in.Username,
		Phone:        in.Phone,
		OrangeMoney:  in.OrangeMoney,
		PasswordHash: hashed,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			log.Info("unique constraint violated on insert", sl.Err(err))
			metrics.IncRegistration("duplicate")
			return "", models.ErrDuplicateIdentity
		}
		metrics.IncRegistration("error")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int("id", id))
	metrics.IncRegistration("created")
	return s.ussdCode, nil
}

// Login проверяет пароль пользователя.
//
// Неизвестный пользователь и неверный пароль неразличимы для вызывающего:
// оба случая возвращают models.ErrInvalidCredentials, и в обоих выполняется
// сравнение bcrypt.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, error) {
	const op = "services.auth.Login"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			metrics.IncLogin("error")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		_ = password.CompareHash(s.dummy(), rawPassword)
		log.Info("login for unknown user")
		metrics.IncLogin("rejected")
		return nil, models.ErrInvalidCredentials
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		log.Info("password mismatch")
		metrics.IncLogin("rejected")
		return nil, models.ErrInvalidCredentials
	}

	metrics.IncLogin("success")
	return user, nil
}

// dummy возвращает хэш, с которым сравнивается пароль неизвестного пользователя.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := password.GetHash("orange-subscription-placeholder")
		if err != nil {
			s.log.Error("failed to build placeholder hash", sl.Err(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
