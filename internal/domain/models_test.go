package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyString(t *testing.T) {
	tests := []struct {
		name  string
		money Money
		want  string
	}{
		{"whole", Money{Amount: 1200, CurrencyCode: "USD"}, "12.00 USD"},
		{"cents", Money{Amount: 1234, CurrencyCode: "EUR"}, "12.34 EUR"},
		{"small", Money{Amount: 5, CurrencyCode: "GBP"}, "0.05 GBP"},
		{"negative", Money{Amount: -250, CurrencyCode: "USD"}, "-2.50 USD"},
		{"no currency", Money{Amount: 99}, "0.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.money.String())
		})
	}
}

func TestOrderStateLabel(t *testing.T) {
	assert.Equal(t, "Payment settled", OrderStatePaymentSettled.Label())
	assert.Equal(t, "Delivered", OrderStateDelivered.Label())
	assert.Equal(t, "Arranging additional payment", OrderStateArrangingAdditionalPayment.Label())
	assert.Equal(t, "Unknown", OrderState("").Label())
}

func TestOrderStateCategory(t *testing.T) {
	assert.Equal(t, StatePaid, OrderStatePaymentAuthorized.Category())
	assert.Equal(t, StateShipping, OrderStatePartiallyDelivered.Category())
	assert.Equal(t, StateDone, OrderStateDelivered.Category())
	assert.Equal(t, StateCancelled, OrderStateCancelled.Category())
	assert.Equal(t, StateInProgress, OrderStateArrangingPayment.Category())
	assert.Equal(t, StateInProgress, OrderState("SomethingCustom").Category())
}
