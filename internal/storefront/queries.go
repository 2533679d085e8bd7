package storefront

import "strings"

// Operation names sent with every request. The fake shop and the metrics
// labels key off these.
const (
	OpSearchOrders = "SearchOrders"
	OpListOrders   = "ListOrders"
	OpOrderDetail  = "OrderDetail"
)

// Selection sets, shared between documents the way the storefront shares
// its selectors.
const (
	orderSummaryFields = `
fragment OrderSummary on Order {
  id
  code
  createdAt
  state
  active
  totalQuantity
  totalWithTax
  currencyCode
  lines {
    featuredAsset { preview }
    productVariant { product { name } }
  }
}`

	orderDetailFields = `
fragment OrderDetail on Order {
  ...OrderSummary
  updatedAt
  subTotalWithTax
  shippingWithTax
  discounts { description amountWithTax }
  billingAddress { city country }
  lines {
    quantity
    unitPriceWithTax
    linePriceWithTax
    discountedLinePriceWithTax
    featuredAsset { preview }
    productVariant {
      name
      sku
      product { name }
    }
  }
}`
)

// document assembles an operation with the fragments it spreads
func document(body string, fragments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(body))
	for _, f := range fragments {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(f))
	}
	return b.String()
}

var (
	searchOrdersQuery = document(`
query SearchOrders($options: OrderListOptions) {
  activeCustomer {
    id
    orders(options: $options) {
      totalItems
      items { ...OrderSummary }
    }
  }
}`, orderSummaryFields)

	listOrdersQuery = document(`
query ListOrders($options: OrderListOptions) {
  activeCustomer {
    id
    orders(options: $options) {
      totalItems
      items { ...OrderSummary }
    }
  }
}`, orderSummaryFields)

	orderDetailQuery = document(`
query OrderDetail($code: String!) {
  activeCustomer { id }
  orderByCode(code: $code) { ...OrderDetail }
}`, orderDetailFields, orderSummaryFields)
)
