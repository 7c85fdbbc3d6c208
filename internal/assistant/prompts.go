package assistant

import (
	"fmt"
	"strings"
	"time"

	"caffi/internal/catalog"
	"caffi/internal/match"
	"caffi/internal/order"
	"caffi/internal/pricing"
)

// promptFor builds the deterministic Spanish prompt for the step the
// conversation lands on. The model may rephrase it but the facts come
// from here.
func (a *Assistant) promptFor(step order.Step, o *order.Order, now time.Time) string {
	if group, ok := step.ModifierGroup(); ok {
		return a.modifierPrompt(o, group)
	}

	switch step {
	case order.StepWelcome:
		return "¡Hola! Bienvenido a Starbucks. ¿Listo para hacer tu pedido?"
	case order.StepAwaitingReady:
		return a.readyPrompt(now)
	case order.StepBranch:
		return "¿En qué sucursal te gustaría recoger tu pedido? Tenemos: " + joinList(branchNames(a.branches))
	case order.StepBeverage:
		return a.beveragePrompt(o, now)
	case order.StepSize:
		return a.sizePrompt(o)
	case order.StepFood:
		return a.foodPrompt(o)
	case order.StepReview:
		return a.reviewPrompt(o)
	case order.StepConfirm:
		return a.confirmPrompt(o)
	case order.StepPayment:
		return a.paymentPrompt()
	}
	return "¿En qué más te puedo ayudar?"
}

func (a *Assistant) readyPrompt(now time.Time) string {
	recs := a.cat.Recommend(catalog.MomentAt(now), 3)
	if len(recs) == 0 {
		return "¿Qué te gustaría ordenar hoy?"
	}
	names := make([]string, 0, len(recs))
	for _, p := range recs {
		names = append(names, p.Name)
	}
	switch catalog.MomentAt(now) {
	case catalog.Morning:
		return "¡Buenos días! Para empezar la mañana te recomiendo: " + joinList(names) + ". ¿Qué te gustaría?"
	case catalog.Afternoon:
		return "¡Buenas tardes! Hoy te recomiendo: " + joinList(names) + ". ¿Qué te gustaría?"
	default:
		return "¡Buenas noches! Para esta hora te recomiendo: " + joinList(names) + ". ¿Qué te gustaría?"
	}
}

func (a *Assistant) beveragePrompt(o *order.Order, now time.Time) string {
	if len(o.LastSuggestions) > 0 {
		return "No encontré esa bebida en el menú. ¿Te gustaría alguna de estas? " + numberedList(o.LastSuggestions)
	}
	recs := a.cat.Recommend(catalog.MomentAt(now), 3)
	if len(recs) == 0 {
		return "¿Qué bebida te preparo?"
	}
	names := make([]string, 0, len(recs))
	for _, p := range recs {
		names = append(names, p.Name)
	}
	return "¿Qué bebida te preparo? Hoy te recomiendo: " + joinList(names)
}

func (a *Assistant) sizePrompt(o *order.Order) string {
	p := a.beverageProduct(o)
	if p == nil {
		return "¿De qué tamaño quieres tu bebida?"
	}
	labels := match.SizeLabels(p)
	return fmt.Sprintf("¿De qué tamaño quieres tu %s? Tenemos: %s", p.Name, joinList(labels))
}

func (a *Assistant) modifierPrompt(o *order.Order, groupID string) string {
	p := a.beverageProduct(o)
	if p == nil {
		return "¿Qué opción prefieres?"
	}
	g := p.GroupByID(groupID)
	if g == nil {
		return "¿Qué opción prefieres?"
	}
	names := make([]string, 0, len(g.Options))
	for _, opt := range g.Options {
		names = append(names, opt.Name)
	}
	return fmt.Sprintf("¿Qué %s prefieres para tu %s? Tenemos: %s", strings.ToLower(g.Name), p.Name, joinList(names))
}

func (a *Assistant) foodPrompt(o *order.Order) string {
	if len(o.LastSuggestions) > 0 {
		return "No encontré ese alimento. ¿Te gustaría alguno de estos? " + numberedList(o.LastSuggestions)
	}
	return "¿Te gustaría agregar algún alimento? Tenemos croissants, panqué y sándwiches, o dime 'no' para continuar."
}

func (a *Assistant) reviewPrompt(o *order.Order) string {
	r := pricing.Compute(o, a.cat, a.payments)
	var b strings.Builder
	b.WriteString("Tu pedido va así: ")
	for i, line := range r.Lines {
		if i > 0 {
			b.WriteString(", ")
		}
		if line.Amount > 0 {
			fmt.Fprintf(&b, "%s ($%.2f)", line.Label, line.Amount)
		} else {
			b.WriteString(line.Label)
		}
	}
	fmt.Fprintf(&b, ". Total: $%.2f. ¿Está correcto?", r.Total)
	return b.String()
}

func (a *Assistant) confirmPrompt(o *order.Order) string {
	r := pricing.Compute(o, a.cat, a.payments)
	return fmt.Sprintf("Perfecto. El total es $%.2f. ¿Confirmamos tu pedido?", r.Total)
}

func (a *Assistant) paymentPrompt() string {
	names := make([]string, 0, len(a.payments))
	for _, m := range a.payments {
		names = append(names, m.Name)
	}
	return "¿Cómo deseas pagar? Aceptamos " + joinList(names) +
		". Con Starbucks Card acumulas el doble de estrellas."
}

func (a *Assistant) finalPrompt(f order.FinalizedOrder) string {
	return fmt.Sprintf(
		"¡Listo! Tu pedido %s está confirmado. Total: $%.2f. Ganaste %d estrellas. Recógelo en %s. ¡Gracias por tu visita!",
		f.OrderNumber, f.Total, f.Stars, f.Branch)
}

func (a *Assistant) beverageProduct(o *order.Order) *catalog.Product {
	if o.Beverage == nil {
		return nil
	}
	return a.cat.FindByID(o.Beverage.ID)
}

func branchNames(branches []catalog.Branch) []string {
	out := make([]string, 0, len(branches))
	for _, b := range branches {
		out = append(out, b.Name)
	}
	return out
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " y " + items[len(items)-1]
}

func numberedList(items []string) string {
	parts := make([]string, 0, len(items))
	for i, it := range items {
		parts = append(parts, fmt.Sprintf("%d) %s", i+1, it))
	}
	return strings.Join(parts, ", ")
}
