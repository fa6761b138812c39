package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

func TestAmountsUseMinorUnitsAndPlatformFee(t *testing.T) {
	price, err := types.NewMoneyFromString("49.99")
	require.NoError(t, err)

	unit, fee := Amounts(price, 30)
	assert.Equal(t, int64(4999), unit)
	assert.Equal(t, int64(1500), fee)

	unit, fee = Amounts(types.NewMoney(100), 30)
	assert.Equal(t, int64(10000), unit)
	assert.Equal(t, int64(3000), fee)
}

func TestNewStripeRequiresKey(t *testing.T) {
	_, err := NewStripe("  ", time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)

	p, err := NewStripe("sk_test_123", 0)
	require.NoError(t, err)
	assert.NotNil(t, p.api.CheckoutSessions)
}

func TestCheckoutSessionPaid(t *testing.T) {
	assert.True(t, (&CheckoutSession{PaymentStatus: "paid"}).Paid())
	assert.False(t, (&CheckoutSession{PaymentStatus: "unpaid"}).Paid())

	var nilSession *CheckoutSession
	assert.False(t, nilSession.Paid())
}
