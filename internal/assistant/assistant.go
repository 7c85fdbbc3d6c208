// Package assistant runs one conversation turn end to end: load the
// session, apply the utterance to the order, finalize when the order is
// complete, and phrase the reply. The deterministic prompt is the source
// of truth; the language model only rewords it.
package assistant

import (
	"context"
	"time"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"

	"caffi/internal/catalog"
	"caffi/internal/order"
	"caffi/internal/pricing"
	"caffi/internal/store"
	"caffi/internal/validate"
)

type Assistant struct {
	cat      *catalog.Catalog
	branches []catalog.Branch
	payments []catalog.PaymentMethod
	engine   *order.Engine
	sessions store.Store
	cache    *store.ReplyCache

	ai     openai.Client
	useLLM bool

	now func() time.Time
}

// Reply is the outcome of one turn.
type Reply struct {
	Text        string  `json:"text"`
	Step        string  `json:"step"`
	OrderNumber string  `json:"order_number,omitempty"`
	Total       float64 `json:"total,omitempty"`
	Stars       int     `json:"stars,omitempty"`
	Done        bool    `json:"done"`
}

func New(cat *catalog.Catalog, branches []catalog.Branch, payments []catalog.PaymentMethod,
	sessions store.Store, cache *store.ReplyCache, ai openai.Client, useLLM bool) *Assistant {
	if len(payments) == 0 {
		payments = catalog.DefaultPaymentMethods
	}
	return &Assistant{
		cat:      cat,
		branches: branches,
		payments: payments,
		engine:   order.NewEngine(cat, branches, payments),
		sessions: sessions,
		cache:    cache,
		ai:       ai,
		useLLM:   useLLM,
		now:      time.Now,
	}
}

// Turn applies one utterance for the session and returns the reply. A
// repeated identical turn at the same conversation point answers from
// the cache without touching state.
func (a *Assistant) Turn(ctx context.Context, sessionID, utterance string) (Reply, error) {
	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return Reply{}, err
	}

	key := store.Key(utterance, sess.Turns, sessionID)
	if a.cache != nil {
		if text, ok := a.cache.Get(key); ok {
			log.Debug("reply from cache", "session", sessionID, "turns", sess.Turns)
			return Reply{Text: text, Step: string(order.NextStep(sess.Current, a.cat))}, nil
		}
	}

	o := sess.Current

	// "nuevo pedido" starts over mid-conversation without the pleasantries
	if order.DetectIntent(utterance) == order.IntentNewOrder && o.Welcomed {
		branch := o.Branch
		sess.Current = order.New()
		o = sess.Current
		o.Welcomed = true
		o.ReadyToOrder = true
		o.Branch = branch
	}

	step := order.NextStep(o, a.cat)
	a.engine.ApplyAnswer(o, step, utterance)
	next := order.NextStep(o, a.cat)

	var reply Reply
	if next == order.StepDone {
		final, ok := a.finalize(sess)
		if ok {
			reply = Reply{
				Text:        a.finalPrompt(final),
				Step:        string(order.StepDone),
				OrderNumber: final.OrderNumber,
				Total:       final.Total,
				Stars:       final.Stars,
				Done:        true,
			}
		} else {
			// validation pulled the order back, re-ask the missing field
			next = order.NextStep(sess.Current, a.cat)
			reply = Reply{Text: a.promptFor(next, sess.Current, a.now()), Step: string(next)}
		}
	} else {
		reply = Reply{Text: a.promptFor(next, o, a.now()), Step: string(next)}
	}

	if a.useLLM && !reply.Done {
		reply.Text = a.phrase(ctx, utterance, reply.Text)
	}

	sess.Turns++
	if err := a.sessions.Put(sessionID, sess); err != nil {
		return Reply{}, err
	}
	if a.cache != nil {
		a.cache.Add(key, reply.Text)
	}
	return reply, nil
}

// finalize validates, prices and archives the current order. On a
// validation failure the blocking field is cleared so the step machine
// re-asks it.
func (a *Assistant) finalize(sess *order.Session) (order.FinalizedOrder, bool) {
	o := sess.Current

	if violations := validate.Order(o, a.cat, a.branches, a.payments); len(violations) > 0 {
		log.Warn("order failed validation at finalization", "violations", len(violations), "first", violations[0].String())
		reopen(o, violations[0].Field)
		return order.FinalizedOrder{}, false
	}

	r := pricing.Compute(o, a.cat, a.payments)
	now := a.now()
	o.OrderNumber = order.NewOrderNumber(now)
	final := order.FinalizedOrder{Order: *o, Total: r.Total, Stars: r.Stars, Timestamp: now}
	sess.Archive(final)

	log.Info("order finalized",
		"number", final.OrderNumber, "total", final.Total, "stars", final.Stars, "branch", final.Branch)
	return final, true
}

// reopen clears the order field a violation names so NextStep re-asks it.
func reopen(o *order.Order, field string) {
	switch field {
	case "branch":
		o.Branch = ""
	case "beverage":
		o.Beverage = nil
		o.SizeID = ""
		o.Modifiers = nil
	case "size":
		o.SizeID = ""
	case "food":
		o.Food = nil
		o.FoodDeclined = false
	case "payment":
		o.PaymentMethod = ""
	default:
		if s := order.Step(field); s != "" {
			if group, ok := s.ModifierGroup(); ok {
				kept := o.Modifiers[:0]
				for _, m := range o.Modifiers {
					if m.GroupID != group {
						kept = append(kept, m)
					}
				}
				o.Modifiers = kept
			}
		}
	}
}
