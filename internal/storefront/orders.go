package storefront

import (
	"context"
	"time"

	"orderscope/internal/domain"
)

// OrderList is one page of the active customer's orders
type OrderList struct {
	Items         []domain.OrderSummary
	TotalItems    int
	Authenticated bool // false when the shop reports no active customer
}

// SearchOptions selects orders whose code contains a substring
type SearchOptions struct {
	CodeContains string
	Skip         int
	Take         int
}

// ListOptions selects a page of orders
type ListOptions struct {
	Skip              int
	Take              int
	SortCreatedAtDesc bool
	ExcludeActive     bool // drop the order still being shopped
}

// OrderSource is the part of the shop API the order history needs
type OrderSource interface {
	SearchOrders(ctx context.Context, opts SearchOptions) (OrderList, error)
	ListOrders(ctx context.Context, opts ListOptions) (OrderList, error)
	OrderDetail(ctx context.Context, code string) (domain.OrderDetail, error)
}

var _ OrderSource = (*Client)(nil)

// SearchOrders returns orders whose code contains opts.CodeContains. Matching
// is done by the shop; the string is sent as typed.
func (c *Client) SearchOrders(ctx context.Context, opts SearchOptions) (OrderList, error) {
	vars := map[string]any{
		"options": map[string]any{
			"skip": opts.Skip,
			"take": opts.Take,
			"filter": map[string]any{
				"code": map[string]any{"contains": opts.CodeContains},
			},
		},
	}
	return c.orders(ctx, OpSearchOrders, searchOrdersQuery, vars)
}

// ListOrders returns a page of orders
func (c *Client) ListOrders(ctx context.Context, opts ListOptions) (OrderList, error) {
	options := map[string]any{
		"skip": opts.Skip,
		"take": opts.Take,
	}
	if opts.SortCreatedAtDesc {
		options["sort"] = map[string]any{"createdAt": "DESC"}
	}
	if opts.ExcludeActive {
		options["filter"] = map[string]any{
			"active": map[string]any{"eq": false},
		}
	}
	return c.orders(ctx, OpListOrders, listOrdersQuery, map[string]any{"options": options})
}

// InitialOrders loads the first page shown before any interaction: placed
// orders only, newest first. A session without a customer is an error here.
func InitialOrders(ctx context.Context, src OrderSource, pageSize int) (OrderList, error) {
	list, err := src.ListOrders(ctx, ListOptions{
		Take:              pageSize,
		SortCreatedAtDesc: true,
		ExcludeActive:     true,
	})
	if err != nil {
		return OrderList{}, err
	}
	if !list.Authenticated {
		return OrderList{}, ErrSignInRequired
	}
	return list, nil
}

// OrderDetail fetches a single order with all of its lines
func (c *Client) OrderDetail(ctx context.Context, code string) (domain.OrderDetail, error) {
	var data struct {
		ActiveCustomer *struct {
			ID string `json:"id"`
		} `json:"activeCustomer"`
		OrderByCode *orderNode `json:"orderByCode"`
	}
	err := c.do(ctx, OpOrderDetail, orderDetailQuery, map[string]any{"code": code}, &data)
	if IsForbidden(err) {
		return domain.OrderDetail{}, ErrSignInRequired
	}
	if err != nil {
		return domain.OrderDetail{}, err
	}
	if data.ActiveCustomer == nil {
		return domain.OrderDetail{}, ErrSignInRequired
	}
	if data.OrderByCode == nil {
		return domain.OrderDetail{}, ErrOrderNotFound
	}
	return data.OrderByCode.detail(), nil
}

func (c *Client) orders(ctx context.Context, operation, query string, vars map[string]any) (OrderList, error) {
	var data struct {
		ActiveCustomer *struct {
			ID     string `json:"id"`
			Orders struct {
				TotalItems int         `json:"totalItems"`
				Items      []orderNode `json:"items"`
			} `json:"orders"`
		} `json:"activeCustomer"`
	}
	err := c.do(ctx, operation, query, vars, &data)
	if IsForbidden(err) {
		return OrderList{Authenticated: false}, nil
	}
	if err != nil {
		return OrderList{}, err
	}
	if data.ActiveCustomer == nil {
		return OrderList{Authenticated: false}, nil
	}

	list := OrderList{
		Items:         make([]domain.OrderSummary, 0, len(data.ActiveCustomer.Orders.Items)),
		TotalItems:    data.ActiveCustomer.Orders.TotalItems,
		Authenticated: true,
	}
	for _, n := range data.ActiveCustomer.Orders.Items {
		list.Items = append(list.Items, n.summary())
	}
	return list, nil
}

type assetNode struct {
	Preview string `json:"preview"`
}

type lineNode struct {
	Quantity                   int        `json:"quantity"`
	UnitPriceWithTax           int64      `json:"unitPriceWithTax"`
	LinePriceWithTax           int64      `json:"linePriceWithTax"`
	DiscountedLinePriceWithTax int64      `json:"discountedLinePriceWithTax"`
	FeaturedAsset              *assetNode `json:"featuredAsset"`
	ProductVariant             struct {
		Name    string `json:"name"`
		SKU     string `json:"sku"`
		Product struct {
			Name string `json:"name"`
		} `json:"product"`
	} `json:"productVariant"`
}

type orderNode struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	State           string    `json:"state"`
	Active          bool      `json:"active"`
	TotalQuantity   int       `json:"totalQuantity"`
	TotalWithTax    int64     `json:"totalWithTax"`
	SubTotalWithTax int64     `json:"subTotalWithTax"`
	ShippingWithTax int64     `json:"shippingWithTax"`
	CurrencyCode    string    `json:"currencyCode"`
	Discounts       []struct {
		Description   string `json:"description"`
		AmountWithTax int64  `json:"amountWithTax"`
	} `json:"discounts"`
	BillingAddress *struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"billingAddress"`
	Lines []lineNode `json:"lines"`
}

func (n orderNode) money(amount int64) domain.Money {
	return domain.Money{Amount: amount, CurrencyCode: n.CurrencyCode}
}

func (n orderNode) summary() domain.OrderSummary {
	s := domain.OrderSummary{
		ID:            n.ID,
		Code:          n.Code,
		CreatedAt:     n.CreatedAt,
		TotalQuantity: n.TotalQuantity,
		TotalWithTax:  n.money(n.TotalWithTax),
		State:         domain.OrderState(n.State),
		LineCount:     len(n.Lines),
	}
	// An order can come back without lines (e.g. emptied before cancelling)
	if len(n.Lines) > 0 {
		first := n.Lines[0]
		s.ProductName = first.ProductVariant.Product.Name
		if first.FeaturedAsset != nil {
			s.Preview = first.FeaturedAsset.Preview
		}
	}
	return s
}

func (n orderNode) detail() domain.OrderDetail {
	d := domain.OrderDetail{
		OrderSummary:    n.summary(),
		UpdatedAt:       n.UpdatedAt,
		SubTotalWithTax: n.money(n.SubTotalWithTax),
		ShippingWithTax: n.money(n.ShippingWithTax),
	}
	for _, disc := range n.Discounts {
		d.Discounts = append(d.Discounts, domain.Discount{
			Description: disc.Description,
			Amount:      n.money(disc.AmountWithTax),
		})
	}
	if n.BillingAddress != nil {
		d.BillingCity = n.BillingAddress.City
		d.BillingCountry = n.BillingAddress.Country
	}
	for _, l := range n.Lines {
		line := domain.OrderLine{
			ProductName:     l.ProductVariant.Product.Name,
			VariantName:     l.ProductVariant.Name,
			SKU:             l.ProductVariant.SKU,
			Quantity:        l.Quantity,
			UnitPrice:       n.money(l.UnitPriceWithTax),
			LinePrice:       n.money(l.LinePriceWithTax),
			DiscountedPrice: n.money(l.DiscountedLinePriceWithTax),
		}
		if l.FeaturedAsset != nil {
			line.Preview = l.FeaturedAsset.Preview
		}
		d.Lines = append(d.Lines, line)
	}
	return d
}
