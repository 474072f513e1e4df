package models

import "time"

// ActivationEvent публикуется после активации подписки по платежу.
type ActivationEvent struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	OrangeMoney   string    `json:"orange_money"`
	SubscribeDate time.Time `json:"subscribe_date"`
	ExpiresAt     time.Time `json:"expires_at"`
}
