package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caffi/internal/catalog"
)

func testEngine() *Engine {
	return NewEngine(testCatalog(), testBranches(), catalog.DefaultPaymentMethods)
}

func TestApplyWelcome(t *testing.T) {
	e := testEngine()
	o := New()

	e.ApplyAnswer(o, StepWelcome, "hola")
	assert.True(t, o.Welcomed)
	assert.False(t, o.ReadyToOrder)

	o = New()
	e.ApplyAnswer(o, StepWelcome, "si, hola")
	assert.True(t, o.Welcomed)
	assert.True(t, o.ReadyToOrder)
}

func TestApplyAwaitingReadyWithBeverage(t *testing.T) {
	e := testEngine()
	o := New()
	o.Welcomed = true

	// naming a drink skips the yes/no round entirely
	e.ApplyAnswer(o, StepAwaitingReady, "quiero un capuchino grande")

	assert.True(t, o.ReadyToOrder)
	require.NotNil(t, o.Beverage)
	assert.Equal(t, "cappuccino", o.Beverage.ID)
	assert.Equal(t, "grande", o.SizeID)
}

func TestApplyBranch(t *testing.T) {
	e := testEngine()
	o := New()

	e.ApplyAnswer(o, StepBranch, "en reforma por favor")
	assert.Equal(t, "Reforma 222", o.Branch)
}

func TestApplyBranchBySuggestionOrdinal(t *testing.T) {
	e := testEngine()
	o := New()

	e.ApplyAnswer(o, StepBranch, "la que sea")
	assert.Empty(t, o.Branch)
	require.Equal(t, []string{"Reforma 222", "Polanco Masaryk"}, o.LastSuggestions)

	e.ApplyAnswer(o, StepBranch, "la 2")
	assert.Equal(t, "Polanco Masaryk", o.Branch)
	assert.Empty(t, o.LastSuggestions)
}

func TestApplyBeverageUnknownThenOrdinal(t *testing.T) {
	e := testEngine()
	o := New()

	e.ApplyAnswer(o, StepBeverage, "algo rico")
	assert.Nil(t, o.Beverage)
	require.NotEmpty(t, o.LastSuggestions)

	e.ApplyAnswer(o, StepBeverage, "1")
	require.NotNil(t, o.Beverage)
	assert.Empty(t, o.LastSuggestions)
}

func TestApplyBeverageResetsDependentFields(t *testing.T) {
	e := testEngine()
	o := New()
	o.Beverage = &ProductRef{ID: "cappuccino", Name: "Cappuccino"}
	o.SizeID = "grande"
	o.Modifiers = []ModifierSelection{{GroupID: "tipo_leche", OptionID: "entera"}}

	e.ApplyAnswer(o, StepBeverage, "mejor un americano")

	require.NotNil(t, o.Beverage)
	assert.Equal(t, "americano", o.Beverage.ID)
	assert.Empty(t, o.SizeID)
	assert.Empty(t, o.Modifiers)
}

func TestApplySize(t *testing.T) {
	e := testEngine()
	o := New()
	o.Beverage = &ProductRef{ID: "cappuccino", Name: "Cappuccino"}

	e.ApplyAnswer(o, StepSize, "el mediano")
	assert.Equal(t, "grande", o.SizeID)
}

func TestApplyModifier(t *testing.T) {
	e := testEngine()
	o := New()
	o.Beverage = &ProductRef{ID: "cappuccino", Name: "Cappuccino"}
	o.SizeID = "grande"

	e.ApplyAnswer(o, ModifierStep("tipo_leche"), "con leche de almendra")

	require.Len(t, o.Modifiers, 1)
	assert.Equal(t, "tipo_leche", o.Modifiers[0].GroupID)
	assert.Equal(t, "almendra", o.Modifiers[0].OptionID)
}

func TestApplyFood(t *testing.T) {
	e := testEngine()

	o := New()
	e.ApplyAnswer(o, StepFood, "no, gracias")
	assert.True(t, o.FoodDeclined)
	assert.Nil(t, o.Food)

	o = New()
	e.ApplyAnswer(o, StepFood, "un croissant")
	require.NotNil(t, o.Food)
	assert.Equal(t, "croissant", o.Food.ID)
	assert.False(t, o.FoodDeclined)
}

func TestApplyReview(t *testing.T) {
	e := testEngine()

	o := New()
	e.ApplyAnswer(o, StepReview, "si, todo bien")
	assert.True(t, o.Reviewed)

	o = New()
	o.FoodDeclined = true
	e.ApplyAnswer(o, StepReview, "agrega un croissant")
	assert.False(t, o.Reviewed)
	require.NotNil(t, o.Food)
	assert.Equal(t, "croissant", o.Food.ID)

	o = New()
	o.Food = &ProductRef{ID: "croissant", Name: "Croissant de Mantequilla"}
	e.ApplyAnswer(o, StepReview, "mejor quita el croissant")
	assert.Nil(t, o.Food)
	assert.True(t, o.FoodDeclined)
	assert.False(t, o.Reviewed)
}

func TestApplyConfirmChangeRevertsReview(t *testing.T) {
	e := testEngine()
	o := New()
	o.Reviewed = true

	e.ApplyAnswer(o, StepConfirm, "quiero cambiar algo")
	assert.False(t, o.Reviewed)
	assert.False(t, o.Confirmed)

	o.Reviewed = true
	e.ApplyAnswer(o, StepConfirm, "si, confirmo")
	assert.True(t, o.Confirmed)
}

func TestApplyPayment(t *testing.T) {
	e := testEngine()

	cases := []struct {
		utterance string
		wantID    string
	}{
		{"en efectivo", "cash"},
		{"con tarjeta", "card"},
		{"con mi tarjeta starbucks", "starbucks_card"},
		{"starbucks card", "starbucks_card"},
	}
	for _, tc := range cases {
		o := New()
		e.ApplyAnswer(o, StepPayment, tc.utterance)
		assert.Equal(t, tc.wantID, o.PaymentMethod, "utterance %q", tc.utterance)
	}
}

func TestApplyAnswerIgnoresFinalizedOrder(t *testing.T) {
	e := testEngine()
	o := New()
	o.Welcomed = true
	o.ReadyToOrder = true
	o.Branch = "Reforma 222"
	o.Beverage = &ProductRef{ID: "americano", Name: "Americano"}
	o.OrderNumber = "SBX101234"

	e.ApplyAnswer(o, StepBeverage, "mejor un capuchino")

	require.NotNil(t, o.Beverage)
	assert.Equal(t, "americano", o.Beverage.ID, "a finalized order must not change")
}

func TestApplyPaymentUnknown(t *testing.T) {
	e := testEngine()
	o := New()

	e.ApplyAnswer(o, StepPayment, "con cheques de viajero")
	assert.Empty(t, o.PaymentMethod)
	assert.Equal(t, []string{"Efectivo", "Tarjeta bancaria", "Starbucks Card"}, o.LastSuggestions)
}
