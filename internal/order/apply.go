package order

import (
	"strings"

	log "log/slog"

	"caffi/internal/catalog"
	"caffi/internal/match"
	"caffi/pkg/textnorm"
)

// Engine applies one utterance to an order at a given step. It mutates
// the order only; choosing the next step stays with NextStep so a single
// turn can fill several fields at once.
type Engine struct {
	cat      *catalog.Catalog
	matcher  *match.Matcher
	branches []catalog.Branch
	payments []catalog.PaymentMethod
}

func NewEngine(cat *catalog.Catalog, branches []catalog.Branch, payments []catalog.PaymentMethod) *Engine {
	if len(payments) == 0 {
		payments = catalog.DefaultPaymentMethods
	}
	return &Engine{cat: cat, matcher: match.New(cat), branches: branches, payments: payments}
}

// ApplyAnswer mutates the order from the utterance given for the step.
// Unresolved input leaves the slot empty and stores the alternatives on
// LastSuggestions so the next turn can pick by ordinal. An order that
// already carries an order number is immutable and never touched.
func (e *Engine) ApplyAnswer(o *Order, step Step, utterance string) {
	if o.Finalized() {
		return
	}
	if group, ok := step.ModifierGroup(); ok {
		e.applyModifier(o, group, utterance)
		return
	}

	switch step {
	case StepWelcome:
		o.Welcomed = true
		if IsAffirmative(utterance) {
			o.ReadyToOrder = true
		}
	case StepAwaitingReady:
		e.applyAwaitingReady(o, utterance)
	case StepBranch:
		e.applyBranch(o, utterance)
	case StepBeverage:
		e.applyBeverage(o, utterance)
	case StepSize:
		e.applySize(o, utterance)
	case StepFood:
		e.applyFood(o, utterance)
	case StepReview:
		e.applyReview(o, utterance)
	case StepConfirm:
		e.applyConfirm(o, utterance)
	case StepPayment:
		e.applyPayment(o, utterance)
	}
}

func (e *Engine) applyAwaitingReady(o *Order, utterance string) {
	if IsAffirmative(utterance) {
		o.ReadyToOrder = true
		return
	}
	// "quiero un latte" skips the pleasantries and starts the order
	if res := e.matcher.Product(utterance, catalog.BeverageCategories); res.Found {
		o.ReadyToOrder = true
		e.captureBeverage(o, res.Product, utterance)
	}
}

func (e *Engine) applyBranch(o *Order, utterance string) {
	if idx, ok := match.FromSuggestions(utterance, o.LastSuggestions); ok && idx < len(e.branches) {
		o.Branch = e.branches[idx].Name
		o.LastSuggestions = nil
		return
	}

	input := textnorm.Normalize(utterance)
	for _, b := range e.branches {
		name := textnorm.Normalize(b.Name)
		if input == name || strings.Contains(input, name) || strings.Contains(name, input) {
			o.Branch = b.Name
			o.LastSuggestions = nil
			return
		}
	}

	// "en reforma" names the branch by its distinctive word alone
	for _, b := range e.branches {
		for _, w := range textnorm.Tokens(textnorm.Normalize(b.Name), 4) {
			if strings.Contains(input, w) {
				o.Branch = b.Name
				o.LastSuggestions = nil
				return
			}
		}
	}

	o.LastSuggestions = branchNames(e.branches)
}

func (e *Engine) applyBeverage(o *Order, utterance string) {
	if idx, ok := match.FromSuggestions(utterance, o.LastSuggestions); ok {
		if p := e.productByName(o.LastSuggestions[idx]); p != nil {
			e.captureBeverage(o, p, "")
			return
		}
	}

	res := e.matcher.Product(utterance, catalog.BeverageCategories)
	if !res.Found {
		o.LastSuggestions = res.Suggestions
		return
	}
	e.captureBeverage(o, res.Product, utterance)
}

// captureBeverage sets the beverage and resets the fields that hang off
// it. When the same utterance already names a size ("capuchino grande")
// the size slot is filled in the same turn.
func (e *Engine) captureBeverage(o *Order, p *catalog.Product, utterance string) {
	o.Beverage = &ProductRef{ID: p.ID, Name: p.Name}
	o.SizeID = ""
	o.Modifiers = nil
	o.LastSuggestions = nil

	if utterance != "" && p.HasSizes() {
		if res := e.matcher.Size(utterance, p); res.Found {
			o.SizeID = res.Size.ID
			log.Debug("size taken from beverage utterance", "product", p.Name, "size", res.Size.Name)
		}
	}
}

func (e *Engine) applySize(o *Order, utterance string) {
	p := e.beverageProduct(o)
	if p == nil {
		return
	}

	if idx, ok := match.FromSuggestions(utterance, o.LastSuggestions); ok && idx < len(p.Sizes) {
		o.SizeID = p.Sizes[idx].ID
		o.LastSuggestions = nil
		return
	}

	res := e.matcher.Size(utterance, p)
	if !res.Found {
		o.LastSuggestions = res.Suggestions
		return
	}
	o.SizeID = res.Size.ID
	o.LastSuggestions = nil
}

func (e *Engine) applyModifier(o *Order, groupID, utterance string) {
	p := e.beverageProduct(o)
	if p == nil {
		return
	}
	g := p.GroupByID(groupID)
	if g == nil {
		return
	}

	if idx, ok := match.FromSuggestions(utterance, o.LastSuggestions); ok && idx < len(g.Options) {
		o.Modifiers = append(o.Modifiers, ModifierSelection{GroupID: g.ID, OptionID: g.Options[idx].ID})
		o.LastSuggestions = nil
		return
	}

	res := e.matcher.Option(utterance, g)
	if !res.Found {
		o.LastSuggestions = res.Suggestions
		return
	}
	o.Modifiers = append(o.Modifiers, ModifierSelection{GroupID: g.ID, OptionID: res.Option.ID})
	o.LastSuggestions = nil
}

func (e *Engine) applyFood(o *Order, utterance string) {
	if IsNegative(utterance) {
		o.FoodDeclined = true
		o.LastSuggestions = nil
		return
	}

	if idx, ok := match.FromSuggestions(utterance, o.LastSuggestions); ok {
		if p := e.productByName(o.LastSuggestions[idx]); p != nil {
			o.Food = &ProductRef{ID: p.ID, Name: p.Name}
			o.LastSuggestions = nil
			return
		}
	}

	res := e.matcher.Product(utterance, catalog.FoodCategories)
	if !res.Found {
		o.LastSuggestions = res.Suggestions
		return
	}
	o.Food = &ProductRef{ID: res.Product.ID, Name: res.Product.Name}
	o.LastSuggestions = nil
}

func (e *Engine) applyReview(o *Order, utterance string) {
	switch DetectIntent(utterance) {
	case IntentAdd:
		// reopen the food slot, the next step re-asks it
		o.Food = nil
		o.FoodDeclined = false
		if res := e.matcher.Product(utterance, catalog.FoodCategories); res.Found {
			o.Food = &ProductRef{ID: res.Product.ID, Name: res.Product.Name}
		}
		return
	case IntentRemove:
		o.Food = nil
		o.FoodDeclined = true
		return
	case IntentChange:
		return
	}
	if IsAffirmative(utterance) {
		o.Reviewed = true
	}
}

func (e *Engine) applyConfirm(o *Order, utterance string) {
	switch DetectIntent(utterance) {
	case IntentChange, IntentRemove, IntentAdd:
		// back to review so the summary is re-approved after the edit
		o.Reviewed = false
		e.applyReview(o, utterance)
		return
	}
	if IsAffirmative(utterance) {
		o.Confirmed = true
	}
}

func (e *Engine) applyPayment(o *Order, utterance string) {
	if idx, ok := match.FromSuggestions(utterance, o.LastSuggestions); ok && idx < len(e.payments) {
		o.PaymentMethod = e.payments[idx].ID
		o.LastSuggestions = nil
		return
	}

	input := textnorm.Normalize(utterance)
	// most specific first: "tarjeta starbucks" is the loyalty card, not
	// the bank card
	if m := e.paymentByKeyword(input, "starbucks"); m != nil {
		o.PaymentMethod = m.ID
		o.LastSuggestions = nil
		return
	}
	for _, m := range e.payments {
		name := textnorm.Normalize(m.Name)
		if strings.Contains(input, name) || strings.Contains(input, m.ID) {
			o.PaymentMethod = m.ID
			o.LastSuggestions = nil
			return
		}
	}
	for kw, id := range paymentKeywords {
		if strings.Contains(input, kw) {
			if m := e.paymentByID(id); m != nil {
				o.PaymentMethod = m.ID
				o.LastSuggestions = nil
				return
			}
		}
	}

	o.LastSuggestions = paymentNames(e.payments)
}

var paymentKeywords = map[string]string{
	"efectivo": "cash",
	"cash":     "cash",
	"tarjeta":  "card",
	"card":     "card",
	"credito":  "card",
	"debito":   "card",
}

func (e *Engine) paymentByKeyword(input, kw string) *catalog.PaymentMethod {
	if !strings.Contains(input, kw) {
		return nil
	}
	for i := range e.payments {
		if strings.Contains(textnorm.Normalize(e.payments[i].Name), kw) ||
			strings.Contains(e.payments[i].ID, kw) {
			return &e.payments[i]
		}
	}
	return nil
}

func (e *Engine) paymentByID(id string) *catalog.PaymentMethod {
	for i := range e.payments {
		if e.payments[i].ID == id {
			return &e.payments[i]
		}
	}
	return nil
}

func (e *Engine) beverageProduct(o *Order) *catalog.Product {
	if o.Beverage == nil {
		return nil
	}
	return e.cat.FindByID(o.Beverage.ID)
}

func (e *Engine) productByName(name string) *catalog.Product {
	want := textnorm.Normalize(name)
	for _, p := range e.cat.Products(nil) {
		if textnorm.Normalize(p.Name) == want {
			q := p
			return &q
		}
	}
	return nil
}

func branchNames(branches []catalog.Branch) []string {
	out := make([]string, 0, len(branches))
	for _, b := range branches {
		out = append(out, b.Name)
	}
	return out
}

func paymentNames(payments []catalog.PaymentMethod) []string {
	out := make([]string, 0, len(payments))
	for _, m := range payments {
		out = append(out, m.Name)
	}
	return out
}
