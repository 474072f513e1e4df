// Package services содержит бизнес-логику жизненного цикла подписки:
// проверку 30-дневного окна и активацию по уведомлению Orange Money.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/orange-subscription/internal/lib/paymentmsg"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/window"
	"github.com/magabrotheeeer/orange-subscription/internal/metrics"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
	"github.com/magabrotheeeer/orange-subscription/internal/notifier"
)

// UserRepository определяет методы хранилища, нужные жизненному циклу подписки.
type UserRepository interface {
	// GetUserByUsername возвращает пользователя по имени или models.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByOrangeMoney возвращает пользователя по номеру Orange Money или models.ErrNotFound.
	GetUserByOrangeMoney(ctx context.Context, orangeMoney string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// ActivateSubscription атомарно выставляет флаг и дату активации.
	ActivateSubscription(ctx context.Context, id int, at time.Time) error
	// ExpireSubscription сбрасывает флаг подписки, не трогая дату.
	ExpireSubscription(ctx context.Context, id int) error
}

// Notifier получает события об активации подписки.
type Notifier interface {
	SubscriptionActivated(ctx context.Context, event models.ActivationEvent) error
}

// SubscriptionService реализует жизненный цикл подписки.
type SubscriptionService struct {
	repo     UserRepository
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// Option настраивает SubscriptionService.
type Option func(*SubscriptionService)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *SubscriptionService) {
		s.now = now
	}
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// notifier может быть nil, тогда события никуда не отправляются.
func NewSubscriptionService(repo UserRepository, n Notifier, log *slog.Logger, opts ...Option) *SubscriptionService {
	if n == nil {
		n = notifier.Noop{}
	}
	s := &SubscriptionService{
		repo:     repo,
		notifier: n,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Peek вычисляет статус подписки на текущий момент, ничего не сохраняя.
func (s *SubscriptionService) Peek(u *models.User) bool {
	return window.Peek(u.IsSubscribed, u.SubscribeDate, s.now())
}

// Evaluate вычисляет статус подписки и сохраняет истечение.
//
// Если окно истекло, флаг сбрасывается в хранилище и в u, дата активации
// остаётся прежней. Уже выключенная подписка не записывается повторно.
func (s *SubscriptionService) Evaluate(ctx context.Context, u *models.User) (bool, error) {
	const op = "services.subscription.Evaluate"

	if s.Peek(u) {
		return true, nil
	}
	if !u.IsSubscribed {
		return false, nil
	}

	if err := s.repo.ExpireSubscription(ctx, u.ID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	u.IsSubscribed = false
	metrics.IncExpiration()
	s.log.Info("subscription expired",
		slog.String("op", op),
		slog.String("username", u.Username),
		slog.Time("subscribe_date", *u.SubscribeDate),
	)
	return false, nil
}

// Status возвращает актуальный статус подписки пользователя username.
func (s *SubscriptionService) Status(ctx context.Context, username string) (bool, error) {
	const op = "services.subscription.Status"

	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, models.ErrNotFound
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return s.Evaluate(ctx, u)
}

// View вычисляет статус и возвращает представление пользователя для API.
func (s *SubscriptionService) View(ctx context.Context, u *models.User) (models.UserView, error) {
	active, err := s.Evaluate(ctx, u)
	if err != nil {
		return models.UserView{}, err
	}
	return models.NewUserView(*u, active), nil
}

// HandlePayment разбирает уведомление о платеже и активирует подписку плательщика.
//
// Неразобранное сообщение и неизвестный плательщик дают одну и ту же
// ошибку models.ErrUnrecognizedPayload; различаются они только в логах и метриках.
func (s *SubscriptionService) HandlePayment(ctx context.Context, raw []byte) (string, error) {
	const op = "services.subscription.HandlePayment"
	log := s.log.With(slog.String("op", op))

	payer, ok := paymentmsg.Parse(raw)
	if !ok {
		log.Info("payment notification did not match", slog.Int("length", len(raw)))
		metrics.IncPayment(metrics.PaymentUnparsed)
		return "", models.ErrUnrecognizedPayload
	}
	log = log.With(slog.String("payer", payer))

	u, err := s.repo.GetUserByOrangeMoney(ctx, payer)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("no user for payer")
			metrics.IncPayment(metrics.PaymentUnknownPayer)
			return "", models.ErrUnrecognizedPayload
		}
		metrics.IncPayment(metrics.PaymentFailed)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	at := s.now()
	if err := s.repo.ActivateSubscription(ctx, u.ID, at); err != nil {
		metrics.IncPayment(metrics.PaymentFailed)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	u.IsSubscribed = true
	u.SubscribeDate = &at

	metrics.IncPayment(metrics.PaymentActivated)
	log.Info("subscription activated", slog.String("username", u.Username))

	if err := s.notifier.SubscriptionActivated(ctx, notifier.NewActivationEvent(*u, at)); err != nil {
		log.Warn("failed to publish activation event", sl.Err(err))
	}
	return payer, nil
}

// Stats возвращает сводку по всем пользователям.
// Активные считаются по результату Evaluate, а не по сохранённому флагу.
func (s *SubscriptionService) Stats(ctx context.Context) (*models.Stats, error) {
	const op = "services.subscription.Stats"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := &models.Stats{
		Total: len(users),
		Users: make([]models.UserView, 0, len(users)),
	}
	for _, u := range users {
		view, err := s.View(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if view.IsSubscribed {
			stats.Active++
		}
		stats.Users = append(stats.Users, view)
	}
	return stats, nil
}
