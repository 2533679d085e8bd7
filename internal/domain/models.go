package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderSummary is the slice of an order shown in the order history list
type OrderSummary struct {
	ID            string
	Code          string
	CreatedAt     time.Time
	TotalQuantity int
	TotalWithTax  Money
	State         OrderState
	LineCount     int    // number of order lines
	Preview       string // featured asset preview of the first line
	ProductName   string // product name of the first line
}

// OrderLine is a single line of an order as shown in the detail pager
type OrderLine struct {
	ProductName     string
	VariantName     string
	SKU             string
	Quantity        int
	UnitPrice       Money
	LinePrice       Money
	DiscountedPrice Money
	Preview         string
}

// Discount is an adjustment applied to an order
type Discount struct {
	Description string
	Amount      Money
}

// OrderDetail is the full view of one order
type OrderDetail struct {
	OrderSummary
	UpdatedAt       time.Time
	SubTotalWithTax Money
	ShippingWithTax Money
	Discounts       []Discount
	Lines           []OrderLine
	BillingCity     string
	BillingCountry  string
}

// Money is an amount in minor units of a currency
type Money struct {
	Amount       int64
	CurrencyCode string
}

// String renders the amount with two decimals followed by the currency code
func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
	if m.CurrencyCode != "" {
		s += " " + m.CurrencyCode
	}
	return s
}

// OrderState is the backend's order process state
type OrderState string

const (
	OrderStateCreated                    OrderState = "Created"
	OrderStateDraft                      OrderState = "Draft"
	OrderStateAddingItems                OrderState = "AddingItems"
	OrderStateArrangingPayment           OrderState = "ArrangingPayment"
	OrderStatePaymentAuthorized          OrderState = "PaymentAuthorized"
	OrderStatePaymentSettled             OrderState = "PaymentSettled"
	OrderStatePartiallyShipped           OrderState = "PartiallyShipped"
	OrderStateShipped                    OrderState = "Shipped"
	OrderStatePartiallyDelivered         OrderState = "PartiallyDelivered"
	OrderStateDelivered                  OrderState = "Delivered"
	OrderStateModifying                  OrderState = "Modifying"
	OrderStateArrangingAdditionalPayment OrderState = "ArrangingAdditionalPayment"
	OrderStateCancelled                  OrderState = "Cancelled"
)

// StateCategory groups order states for display
type StateCategory int

const (
	StateInProgress StateCategory = iota
	StatePaid
	StateShipping
	StateDone
	StateCancelled
)

// Category maps a state onto its display category. Unknown states are in progress.
func (s OrderState) Category() StateCategory {
	switch s {
	case OrderStatePaymentAuthorized, OrderStatePaymentSettled:
		return StatePaid
	case OrderStatePartiallyShipped, OrderStateShipped, OrderStatePartiallyDelivered:
		return StateShipping
	case OrderStateDelivered:
		return StateDone
	case OrderStateCancelled:
		return StateCancelled
	default:
		return StateInProgress
	}
}

// Label turns the CamelCase state name into words ("PaymentSettled" -> "Payment settled")
func (s OrderState) Label() string {
	if s == "" {
		return "Unknown"
	}
	var b strings.Builder
	for i, r := range string(s) {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
