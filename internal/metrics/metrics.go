// Package metrics содержит счётчики Prometheus для регистрации, входа и платежей.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты обработки уведомления о платеже.
const (
	PaymentActivated    = "activated"
	PaymentUnparsed     = "unparsed"
	PaymentUnknownPayer = "unknown_payer"
	PaymentFailed       = "failed"
)

var (
	once sync.Once

	paymentNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Payment notifications by result (activated/unparsed/unknown_payer/failed).",
		},
		[]string{"result"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Registration attempts by result.",
		},
		[]string{"result"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)

	expirations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscription_expirations_total",
			Help: "Subscriptions switched off on read after the 30-day window.",
		},
	)
)

// MustRegister регистрирует коллекторы в реестре по умолчанию (идемпотентно).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(paymentNotifications, registrations, logins, expirations)
	})
}

// IncPayment увеличивает счётчик уведомлений с результатом result.
func IncPayment(result string) {
	paymentNotifications.WithLabelValues(result).Inc()
}

// IncRegistration увеличивает счётчик регистраций.
func IncRegistration(result string) {
	registrations.WithLabelValues(result).Inc()
}

// IncLogin увеличивает счётчик попыток входа.
func IncLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

// IncExpiration учитывает подписку, выключенную при чтении.
func IncExpiration() {
	expirations.Inc()
}
