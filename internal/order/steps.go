package order

import (
	"strings"

	"caffi/internal/catalog"
)

// Step names the one field the conversation should fill next. Modifier
// steps embed the group id as "modifier:<groupId>".
type Step string

const (
	StepWelcome       Step = "welcome"
	StepAwaitingReady Step = "awaiting_ready"
	StepBranch        Step = "branch"
	StepBeverage      Step = "beverage"
	StepSize          Step = "size"
	StepFood          Step = "food"
	StepReview        Step = "review"
	StepConfirm       Step = "confirm"
	StepPayment       Step = "payment"
	StepDone          Step = "done"
)

const modifierPrefix = "modifier:"

func ModifierStep(groupID string) Step {
	return Step(modifierPrefix + groupID)
}

// ModifierGroup extracts the group id from a modifier step.
func (s Step) ModifierGroup() (string, bool) {
	if strings.HasPrefix(string(s), modifierPrefix) {
		return strings.TrimPrefix(string(s), modifierPrefix), true
	}
	return "", false
}

// NextStep walks the transition rules top to bottom and returns the first
// unmet one. Because beverage completeness (size, required modifiers) is
// re-checked on every call before the closing steps, a stale order that
// somehow carries reviewed/confirmed flags but lost a mandatory field is
// pulled back to the missing step instead of reaching payment.
func NextStep(o *Order, cat *catalog.Catalog) Step {
	if !o.Welcomed {
		return StepWelcome
	}
	if !o.ReadyToOrder {
		return StepAwaitingReady
	}
	if o.Branch == "" {
		return StepBranch
	}
	if o.Beverage == nil {
		return StepBeverage
	}

	product := cat.FindByID(o.Beverage.ID)
	if product == nil {
		// beverage no longer resolves, re-ask rather than guess
		return StepBeverage
	}
	if product.HasSizes() && o.SizeID == "" {
		return StepSize
	}
	for _, g := range product.RequiredGroups() {
		if !o.HasModifier(g.ID) {
			return ModifierStep(g.ID)
		}
	}

	if !o.foodSet() {
		return StepFood
	}
	if !o.Reviewed {
		return StepReview
	}
	if !o.Confirmed {
		return StepConfirm
	}
	if o.PaymentMethod == "" {
		return StepPayment
	}
	return StepDone
}
