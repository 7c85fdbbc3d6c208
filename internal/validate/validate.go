// Package validate re-checks a finished order against the catalog before
// it is finalized. The step machine keeps a live conversation well formed;
// the validator catches what a stale session or a mid-session menu reload
// can break, and reports every violation at once.
package validate

import (
	"fmt"

	"caffi/internal/catalog"
	"caffi/internal/order"
)

// Violation names the offending field and the reason. Modifier fields use
// the "modifier:<groupId>" form the step machine uses.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// Order returns all violations that block finalization, empty when the
// order is ready for payment. Branch and payment method must be members
// of the known lists, a restored session can carry values the current
// configuration no longer offers.
func Order(o *order.Order, cat *catalog.Catalog, branches []catalog.Branch, payments []catalog.PaymentMethod) []Violation {
	var out []Violation

	if o.Branch == "" {
		out = append(out, Violation{Field: "branch", Reason: "no pickup branch selected"})
	} else if !knownBranch(o.Branch, branches) {
		out = append(out, Violation{Field: "branch", Reason: fmt.Sprintf("branch %q is not a known branch", o.Branch)})
	}

	if o.Beverage == nil {
		out = append(out, Violation{Field: "beverage", Reason: "no beverage selected"})
	} else if p := cat.FindByID(o.Beverage.ID); p == nil {
		out = append(out, Violation{Field: "beverage", Reason: fmt.Sprintf("product %q not in catalog", o.Beverage.ID)})
	} else {
		out = append(out, beverage(o, p)...)
	}

	if o.Food != nil {
		if p := cat.FindByID(o.Food.ID); p == nil {
			out = append(out, Violation{Field: "food", Reason: fmt.Sprintf("product %q not in catalog", o.Food.ID)})
		} else if !p.Available {
			out = append(out, Violation{Field: "food", Reason: fmt.Sprintf("%s is not available", p.Name)})
		}
	}

	if o.PaymentMethod == "" {
		out = append(out, Violation{Field: "payment", Reason: "no payment method selected"})
	} else if !knownPayment(o.PaymentMethod, payments) {
		out = append(out, Violation{Field: "payment", Reason: fmt.Sprintf("payment method %q is not offered", o.PaymentMethod)})
	}

	return out
}

func knownBranch(name string, branches []catalog.Branch) bool {
	for _, b := range branches {
		if b.Name == name || b.ID == name {
			return true
		}
	}
	return false
}

func knownPayment(id string, payments []catalog.PaymentMethod) bool {
	for _, m := range payments {
		if m.ID == id {
			return true
		}
	}
	return false
}

func beverage(o *order.Order, p *catalog.Product) []Violation {
	var out []Violation

	if !p.Available {
		out = append(out, Violation{Field: "beverage", Reason: fmt.Sprintf("%s is not available", p.Name)})
	}

	if p.HasSizes() {
		if o.SizeID == "" {
			out = append(out, Violation{Field: "size", Reason: "no size selected"})
		} else if p.SizeByID(o.SizeID) == nil {
			out = append(out, Violation{Field: "size", Reason: fmt.Sprintf("size %q not offered for %s", o.SizeID, p.Name)})
		}
	}

	counts := map[string]int{}
	for _, sel := range o.Modifiers {
		counts[sel.GroupID]++
		g := p.GroupByID(sel.GroupID)
		if g == nil {
			out = append(out, Violation{
				Field:  "modifier:" + sel.GroupID,
				Reason: fmt.Sprintf("group %q not offered for %s", sel.GroupID, p.Name),
			})
			continue
		}
		if g.OptionByID(sel.OptionID) == nil {
			out = append(out, Violation{
				Field:  "modifier:" + sel.GroupID,
				Reason: fmt.Sprintf("option %q not in group %s", sel.OptionID, g.Name),
			})
		}
	}

	for _, g := range p.ModifierGroups {
		n := counts[g.ID]
		// min binds required groups only: the conversation never asks
		// for an optional group, so an untouched one is not a defect
		if g.Required {
			min := g.Min
			if min < 1 {
				min = 1
			}
			if n < min {
				out = append(out, Violation{
					Field:  "modifier:" + g.ID,
					Reason: fmt.Sprintf("%s needs at least %d selection(s), has %d", g.Name, min, n),
				})
			}
		}
		if g.Max > 0 && n > g.Max {
			out = append(out, Violation{
				Field:  "modifier:" + g.ID,
				Reason: fmt.Sprintf("%s allows at most %d selection(s), has %d", g.Name, g.Max, n),
			})
		}
	}

	return out
}
