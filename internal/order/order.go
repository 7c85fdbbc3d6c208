// Package order holds the per-session order aggregate, the step state
// machine that sequences the slot-filling conversation, and the answer
// application that mutates the aggregate from resolved utterances.
package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// ProductRef pins a matched catalog product by id, keeping the display
// name alongside for summaries.
type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ModifierSelection records one chosen option of a modifier group.
// Unique per group unless the group allows more than one.
type ModifierSelection struct {
	GroupID  string `json:"group_id"`
	OptionID string `json:"option_id"`
}

// Order is the mutable aggregate filled over the conversation. Once
// OrderNumber is assigned the order is archived and never mutated again.
type Order struct {
	Welcomed     bool   `json:"welcomed"`
	ReadyToOrder bool   `json:"ready_to_order"`
	Branch       string `json:"branch,omitempty"`

	Beverage  *ProductRef         `json:"beverage,omitempty"`
	SizeID    string              `json:"size,omitempty"`
	Modifiers []ModifierSelection `json:"modifiers,omitempty"`

	Food         *ProductRef `json:"food,omitempty"`
	FoodDeclined bool        `json:"food_declined,omitempty"`

	Reviewed      bool   `json:"reviewed"`
	Confirmed     bool   `json:"confirmed"`
	PaymentMethod string `json:"payment_method,omitempty"`
	OrderNumber   string `json:"order_number,omitempty"`

	// LastSuggestions carries the alternatives offered on the previous
	// turn, so a bare "2" can select from them.
	LastSuggestions []string `json:"last_suggestions,omitempty"`
}

func New() *Order {
	return &Order{}
}

// HasModifier reports whether any selection exists for the group.
func (o *Order) HasModifier(groupID string) bool {
	for _, m := range o.Modifiers {
		if m.GroupID == groupID {
			return true
		}
	}
	return false
}

// foodSet treats an explicit decline the same as a chosen food.
func (o *Order) foodSet() bool {
	return o.Food != nil || o.FoodDeclined
}

// Finalized reports whether an order number has been assigned.
func (o *Order) Finalized() bool {
	return o.OrderNumber != ""
}

// FinalizedOrder is an immutable snapshot appended to the session history.
type FinalizedOrder struct {
	Order
	Total     float64   `json:"total"`
	Stars     int       `json:"stars"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-key conversation state. Version is bumped by the
// store on every write to reject racing turns for the same key.
type Session struct {
	Version   uint64           `json:"version"`
	Current   *Order           `json:"current_order"`
	History   []FinalizedOrder `json:"history"`
	StartedAt time.Time        `json:"started_at"`
	Turns     int              `json:"turns"`
}

func NewSession() *Session {
	return &Session{Current: New(), StartedAt: time.Now()}
}

// Archive appends the finalized snapshot and starts a fresh order.
// History only grows.
func (s *Session) Archive(f FinalizedOrder) {
	s.History = append(s.History, f)
	s.Current = New()
}

// NewOrderNumber builds the pickup code printed on the cup, the day of
// month plus four random digits.
func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("SBX%02d%04d", t.Day(), 1000+rand.IntN(9000))
}
