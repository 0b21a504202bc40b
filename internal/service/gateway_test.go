package service

import (
	"context"
	"crypto/hmac"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignPayload_RoundTrip(t *testing.T) {
	t.Parallel()

	sig := SignPayload("secret", "order_1", "pay_1")

	assert.Equal(t, sig, SignPayload("secret", "order_1", "pay_1"))
	assert.True(t, hmac.Equal([]byte(sig), []byte(SignPayload("secret", "order_1", "pay_1"))))
}

func TestSignPayload_SingleCharacterMutationFails(t *testing.T) {
	t.Parallel()

	sig := SignPayload("secret", "order_1", "pay_1")

	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}

	assert.False(t, hmac.Equal([]byte(SignPayload("secret", "order_1", "pay_1")), mutated))
	assert.NotEqual(t, sig, SignPayload("secret", "order_1", "pay_2"))
	assert.NotEqual(t, sig, SignPayload("wrong", "order_1", "pay_1"))
}

func TestSandboxGateway_CompletedOrderVerifies(t *testing.T) {
	t.Parallel()

	gw := NewSandboxGateway("secret")

	orderID, err := gw.CreateOrder(context.Background(), 100, "INR", "booking-1")
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	paymentID, sig := gw.CompleteOrder(orderID)
	assert.Equal(t, SignPayload("secret", orderID, paymentID), sig)
}
