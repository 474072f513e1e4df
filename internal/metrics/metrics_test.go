package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncPayment(t *testing.T) {
	before := testutil.ToFloat64(paymentNotifications.WithLabelValues(PaymentActivated))
	IncPayment(PaymentActivated)
	after := testutil.ToFloat64(paymentNotifications.WithLabelValues(PaymentActivated))
	assert.Equal(t, before+1, after)
}

func TestIncExpiration(t *testing.T) {
	before := testutil.ToFloat64(expirations)
	IncExpiration()
	assert.Equal(t, before+1, testutil.ToFloat64(expirations))
}

func TestMustRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		MustRegister()
		MustRegister()
	})
}
