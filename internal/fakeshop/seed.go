package fakeshop

import (
	"fmt"
	"time"

	"orderscope/internal/domain"
)

var products = []struct {
	name    string
	variant string
	price   int64
}{
	{"Laptop", "13 inch 8GB", 129900},
	{"Tablet", "32GB", 32900},
	{"Wireless Optical Mouse", "Black", 1899},
	{"Curvy Monitor", "24 inch", 14374},
	{"High Performance RAM", "4GB", 13785},
	{"Running Shoe", "Size 40", 9999},
	{"Spiky Cactus", "Default", 1550},
	{"Hard Drive", "1TB", 3799},
}

var placedStates = []domain.OrderState{
	domain.OrderStateDelivered,
	domain.OrderStateShipped,
	domain.OrderStatePaymentSettled,
	domain.OrderStatePartiallyDelivered,
	domain.OrderStateCancelled,
	domain.OrderStatePaymentAuthorized,
}

// SeedOrders builds n placed orders, one a day going back from now, plus the
// customer's active cart. Codes are deterministic so tests can search them.
func SeedOrders(n int, now time.Time) []Order {
	orders := make([]Order, 0, n+1)
	for i := 0; i < n; i++ {
		created := now.Add(-time.Duration(n-i) * 24 * time.Hour)
		o := newOrder(i+1, created, placedStates[i%len(placedStates)], (i%3)+1)
		orders = append(orders, o)
	}
	cart := newOrder(n+1, now, domain.OrderStateAddingItems, 1)
	cart.Active = true
	orders = append(orders, cart)
	return orders
}

// OrderCode is the code SeedOrders gives the i-th order (1-based)
func OrderCode(i int) string {
	return fmt.Sprintf("ORD%04dX%d", i, i%7)
}

func newOrder(i int, created time.Time, state domain.OrderState, lines int) Order {
	const currency = "USD"
	money := func(amount int64) domain.Money {
		return domain.Money{Amount: amount, CurrencyCode: currency}
	}

	var (
		qty      int
		subTotal int64
		detail   domain.OrderDetail
	)
	for l := 0; l < lines; l++ {
		p := products[(i+l)%len(products)]
		q := (i+l)%2 + 1
		line := int64(q) * p.price
		detail.Lines = append(detail.Lines, domain.OrderLine{
			ProductName:     p.name,
			VariantName:     p.variant,
			SKU:             fmt.Sprintf("SKU-%03d-%d", (i+l)%len(products), l),
			Quantity:        q,
			UnitPrice:       money(p.price),
			LinePrice:       money(line),
			DiscountedPrice: money(line),
			Preview:         fmt.Sprintf("/assets/preview/%d.jpg", (i+l)%len(products)),
		})
		qty += q
		subTotal += line
	}

	shipping := int64(500)
	total := subTotal + shipping
	if i%4 == 0 {
		discount := subTotal / 10
		detail.Discounts = append(detail.Discounts, domain.Discount{
			Description: "10% off",
			Amount:      money(-discount),
		})
		total -= discount
	}

	detail.OrderSummary = domain.OrderSummary{
		ID:            fmt.Sprint(i),
		Code:          OrderCode(i),
		CreatedAt:     created.UTC(),
		TotalQuantity: qty,
		TotalWithTax:  money(total),
		State:         state,
		LineCount:     len(detail.Lines),
		Preview:       detail.Lines[0].Preview,
		ProductName:   detail.Lines[0].ProductName,
	}
	detail.UpdatedAt = created.Add(2 * time.Hour).UTC()
	detail.SubTotalWithTax = money(subTotal)
	detail.ShippingWithTax = money(shipping)
	detail.BillingCity = "Leipzig"
	detail.BillingCountry = "Germany"
	return Order{OrderDetail: detail}
}

// encodeOrder renders an order the way the shop API serialises it
func encodeOrder(o Order) map[string]any {
	lines := make([]map[string]any, 0, len(o.Lines))
	for _, l := range o.Lines {
		var asset any
		if l.Preview != "" {
			asset = map[string]any{"preview": l.Preview}
		}
		lines = append(lines, map[string]any{
			"quantity":                   l.Quantity,
			"unitPriceWithTax":           l.UnitPrice.Amount,
			"linePriceWithTax":           l.LinePrice.Amount,
			"discountedLinePriceWithTax": l.DiscountedPrice.Amount,
			"featuredAsset":              asset,
			"productVariant": map[string]any{
				"name": l.VariantName,
				"sku":  l.SKU,
				"product": map[string]any{
					"name": l.ProductName,
				},
			},
		})
	}

	discounts := make([]map[string]any, 0, len(o.Discounts))
	for _, d := range o.Discounts {
		discounts = append(discounts, map[string]any{
			"description":   d.Description,
			"amountWithTax": d.Amount.Amount,
		})
	}

	var billing any
	if o.BillingCity != "" || o.BillingCountry != "" {
		billing = map[string]any{"city": o.BillingCity, "country": o.BillingCountry}
	}

	return map[string]any{
		"id":              o.ID,
		"code":            o.Code,
		"createdAt":       o.CreatedAt.Format(time.RFC3339),
		"updatedAt":       o.UpdatedAt.Format(time.RFC3339),
		"state":           string(o.State),
		"active":          o.Active,
		"totalQuantity":   o.TotalQuantity,
		"totalWithTax":    o.TotalWithTax.Amount,
		"subTotalWithTax": o.SubTotalWithTax.Amount,
		"shippingWithTax": o.ShippingWithTax.Amount,
		"currencyCode":    o.TotalWithTax.CurrencyCode,
		"discounts":       discounts,
		"billingAddress":  billing,
		"lines":           lines,
	}
}
