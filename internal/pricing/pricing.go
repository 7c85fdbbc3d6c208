// Package pricing turns a filled order into a receipt: itemized lines,
// a two-decimal total, and the loyalty stars the payment method earns.
// Math runs on decimals so repeated surcharges never drift.
package pricing

import (
	"github.com/shopspring/decimal"

	"caffi/internal/catalog"
	"caffi/internal/match"
	"caffi/internal/order"
)

// Line is one receipt row. Zero-amount rows are kept so a free modifier
// still shows up in the summary.
type Line struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Receipt is the priced view of an order. Pricing never mutates the
// order it reads.
type Receipt struct {
	Lines []Line  `json:"lines"`
	Total float64 `json:"total"`
	Stars int     `json:"stars"`
}

// Compute prices the order against the catalog. Unresolvable references
// (a product or size id that left the catalog mid-session) price as zero
// rather than failing the turn.
func Compute(o *order.Order, cat *catalog.Catalog, payments []catalog.PaymentMethod) Receipt {
	var lines []Line
	total := decimal.Zero

	add := func(label string, amount decimal.Decimal) {
		lines = append(lines, Line{Label: label, Amount: amount.InexactFloat64()})
		total = total.Add(amount)
	}

	if o.Beverage != nil {
		if p := cat.FindByID(o.Beverage.ID); p != nil {
			add(beverageLabel(o, p), beveragePrice(o, p))
			for _, sel := range o.Modifiers {
				g := p.GroupByID(sel.GroupID)
				if g == nil {
					continue
				}
				opt := g.OptionByID(sel.OptionID)
				if opt == nil {
					continue
				}
				add(opt.Name, decimal.NewFromFloat(opt.SurchargeFor(o.SizeID)))
			}
		}
	}

	if o.Food != nil {
		if p := cat.FindByID(o.Food.ID); p != nil {
			add(p.Name, decimal.NewFromFloat(p.BasePrice))
		}
	}

	total = total.Round(2)
	return Receipt{
		Lines: lines,
		Total: total.InexactFloat64(),
		Stars: Stars(total.InexactFloat64(), o.PaymentMethod, payments),
	}
}

// beveragePrice picks the chosen size's absolute price, falling back to
// the default size and finally the base price.
func beveragePrice(o *order.Order, p *catalog.Product) decimal.Decimal {
	if o.SizeID != "" {
		if s := p.SizeByID(o.SizeID); s != nil {
			return decimal.NewFromFloat(s.Price)
		}
	}
	if p.DefaultSize != nil {
		return decimal.NewFromFloat(p.DefaultSize.Price)
	}
	if len(p.Sizes) == 1 {
		return decimal.NewFromFloat(p.Sizes[0].Price)
	}
	return decimal.NewFromFloat(p.BasePrice)
}

func beverageLabel(o *order.Order, p *catalog.Product) string {
	if o.SizeID != "" {
		if s := p.SizeByID(o.SizeID); s != nil {
			return p.Name + " " + match.SizeLabel(s.Name)
		}
	}
	return p.Name
}

// ApplyDiscount reduces a total by the given percentage, clamped to
// [0, 100], rounded to two decimals.
func ApplyDiscount(total, percent float64) float64 {
	if percent <= 0 || total <= 0 {
		return total
	}
	if percent > 100 {
		percent = 100
	}
	factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100))
	return decimal.NewFromFloat(total).Mul(factor).Round(2).InexactFloat64()
}

// Stars computes loyalty stars: one per StarsDivisor pesos of the total,
// floored. No payment method or a non-positive total earns nothing.
func Stars(total float64, paymentID string, payments []catalog.PaymentMethod) int {
	if paymentID == "" || total <= 0 {
		return 0
	}
	divisor := 0
	for _, m := range payments {
		if m.ID == paymentID {
			divisor = m.StarsDivisor
			break
		}
	}
	if divisor <= 0 {
		return 0
	}
	return int(decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(divisor))).IntPart())
}
