package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"orderscope/internal/domain"
)

const dateLayout = "02 Jan 2006 15:04"

// OrderRenderer handles rendering of order cards
type OrderRenderer struct {
	styles      *Styles
	showPreview bool
}

// NewOrderRenderer creates a new order renderer
func NewOrderRenderer(styles *Styles, showPreview bool) *OrderRenderer {
	return &OrderRenderer{
		styles:      styles,
		showPreview: showPreview,
	}
}

// RenderList renders all cards and returns the first line of each card so
// the caller can keep the selection in view.
func (r *OrderRenderer) RenderList(orders []domain.OrderSummary, selected, width int) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(orders))
	line := 0
	for i, o := range orders {
		if i > 0 {
			b.WriteString("\n\n")
			line++
		}
		offsets = append(offsets, line)
		card := r.RenderOrder(o, i == selected, width)
		b.WriteString(card)
		line += lipgloss.Height(card)
	}
	return b.String(), offsets
}

// RenderOrder renders one order card
func (r *OrderRenderer) RenderOrder(o domain.OrderSummary, isSelected bool, width int) string {
	stateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(GetStateColor(o.State)))

	header := fmt.Sprintf("%s  %s",
		r.styles.Code.Render(o.Code),
		r.styles.Label.Render(o.CreatedAt.Format(dateLayout)),
	)
	state := stateStyle.Render(o.State.Label())
	if width > 0 {
		gap := width - 4 - lipgloss.Width(header) - lipgloss.Width(state)
		if gap < 2 {
			gap = 2
		}
		header += strings.Repeat(" ", gap) + state
	} else {
		header += "  " + state
	}

	totals := fmt.Sprintf("%s %d  %s %d  %s %s",
		r.styles.Label.Render("Quantity:"), o.TotalQuantity,
		r.styles.Label.Render("Items:"), o.LineCount,
		r.styles.Label.Render("Total:"), r.styles.Price.Render(o.TotalWithTax.String()),
	)

	lines := []string{header, totals}
	if o.ProductName != "" {
		product := o.ProductName
		if o.LineCount > 1 {
			product += r.styles.Dim.Render(fmt.Sprintf(" and %d more", o.LineCount-1))
		}
		lines = append(lines, product)
	} else {
		lines = append(lines, r.styles.Dim.Render("no items"))
	}
	if r.showPreview && o.Preview != "" {
		lines = append(lines, r.styles.Dim.Render(o.Preview))
	}

	style := r.styles.Card
	if isSelected {
		style = r.styles.CardSelected
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderDetail renders the full order for the pager or the detail popup
func (r *OrderRenderer) RenderDetail(d domain.OrderDetail) string {
	var b strings.Builder
	stateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(GetStateColor(d.State)))

	b.WriteString(r.styles.Title.Render("Order " + d.Code))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render("State:    "), stateStyle.Render(d.State.Label()))
	fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render("Placed:   "), d.CreatedAt.Format(dateLayout))
	if !d.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render("Updated:  "), d.UpdatedAt.Format(dateLayout))
	}
	if d.BillingCity != "" || d.BillingCountry != "" {
		fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render("Billing:  "),
			strings.Trim(d.BillingCity+", "+d.BillingCountry, ", "))
	}
	b.WriteString("\n")

	if len(d.Lines) == 0 {
		b.WriteString(r.styles.Dim.Render("This order has no items."))
		b.WriteString("\n")
	}
	for _, l := range d.Lines {
		name := l.ProductName
		if l.VariantName != "" && l.VariantName != l.ProductName {
			name += " (" + l.VariantName + ")"
		}
		fmt.Fprintf(&b, "  %dx %s\n", l.Quantity, name)
		price := r.styles.Price.Render(l.LinePrice.String())
		if l.DiscountedPrice != l.LinePrice {
			price = r.styles.Dim.Render(l.LinePrice.String()) + " " + r.styles.Price.Render(l.DiscountedPrice.String())
		}
		fmt.Fprintf(&b, "     %s %s  %s %s\n",
			r.styles.Label.Render("each"), l.UnitPrice,
			r.styles.Label.Render("line"), price)
		if l.SKU != "" {
			fmt.Fprintf(&b, "     %s\n", r.styles.Dim.Render("SKU "+l.SKU))
		}
		if r.showPreview && l.Preview != "" {
			fmt.Fprintf(&b, "     %s\n", r.styles.Dim.Render(l.Preview))
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render("Subtotal: "), d.SubTotalWithTax)
	for _, disc := range d.Discounts {
		fmt.Fprintf(&b, "%s %s  %s\n", r.styles.Label.Render("Discount: "), disc.Amount, r.styles.Dim.Render(disc.Description))
	}
	fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render("Shipping: "), d.ShippingWithTax)
	fmt.Fprintf(&b, "%s %s", r.styles.Label.Render("Total:    "), r.styles.Price.Bold(true).Render(d.TotalWithTax.String()))
	return b.String()
}
