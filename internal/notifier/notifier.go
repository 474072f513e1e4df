// Package notifier рассылает события об активации подписки во внешние системы.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/orange-subscription/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/window"
	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

// NewActivationEvent собирает событие для пользователя, активированного в момент at.
func NewActivationEvent(u models.User, at time.Time) models.ActivationEvent {
	return models.ActivationEvent{
		ID:            uuid.NewString(),
		Username:      u.Username,
		OrangeMoney:   u.OrangeMoney,
		SubscribeDate: at,
		ExpiresAt:     window.End(at),
	}
}

// Rabbit публикует события в exchange RabbitMQ.
type Rabbit struct {
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbit создает Rabbit поверх уже настроенного канала.
func NewRabbit(ch *amqp.Channel, exchange, routingKey string) *Rabbit {
	return &Rabbit{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
	}
}

// SubscriptionActivated публикует событие активации.
func (r *Rabbit) SubscriptionActivated(ctx context.Context, event models.ActivationEvent) error {
	const op = "notifier.Rabbit.SubscriptionActivated"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if err := rabbitmq.PublishMessage(r.ch, r.exchange, r.routingKey, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Noop используется, когда RabbitMQ не настроен.
type Noop struct{}

// SubscriptionActivated ничего не делает.
func (Noop) SubscriptionActivated(context.Context, models.ActivationEvent) error {
	return nil
}
