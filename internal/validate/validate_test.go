package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caffi/internal/catalog"
	"caffi/internal/order"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{Categories: map[string][]catalog.Product{
		"bebidas_calientes": {
			{
				ID: "cappuccino", Name: "Cappuccino", BasePrice: 54, Available: true,
				Sizes: []catalog.Size{
					{ID: "tall", Name: "Tall (12oz - 355ml)", Price: 54},
					{ID: "grande", Name: "Grande (16oz - 473ml)", Price: 64},
				},
				ModifierGroups: []catalog.ModifierGroup{{
					ID: "tipo_leche", Name: "Tipo de leche", Required: true, Min: 1, Max: 1,
					Options: []catalog.ModifierOption{
						{ID: "entera", Name: "Leche entera"},
						{ID: "almendra", Name: "Leche de almendra"},
					},
				}},
			},
			{ID: "retirado", Name: "Pike Place", BasePrice: 40, Available: false},
		},
		"panaderia": {
			{ID: "croissant", Name: "Croissant de Mantequilla", BasePrice: 42, Available: true},
			{ID: "agotado", Name: "Panqué de Nuez", BasePrice: 48, Available: false},
		},
	}}
}

func testBranches() []catalog.Branch {
	return []catalog.Branch{
		{ID: "reforma", Name: "Reforma 222"},
		{ID: "polanco", Name: "Polanco Masaryk"},
	}
}

func completeOrder() *order.Order {
	return &order.Order{
		Welcomed: true, ReadyToOrder: true, Branch: "Reforma 222",
		Beverage:  &order.ProductRef{ID: "cappuccino", Name: "Cappuccino"},
		SizeID:    "grande",
		Modifiers: []order.ModifierSelection{{GroupID: "tipo_leche", OptionID: "entera"}},
		Food:      &order.ProductRef{ID: "croissant", Name: "Croissant de Mantequilla"},
		Reviewed:  true, Confirmed: true, PaymentMethod: "cash",
	}
}

func validateOrder(o *order.Order) []Violation {
	return Order(o, testCatalog(), testBranches(), catalog.DefaultPaymentMethods)
}

func fields(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Field)
	}
	return out
}

func TestOrderComplete(t *testing.T) {
	assert.Empty(t, validateOrder(completeOrder()))
}

func TestOrderReportsAllViolations(t *testing.T) {
	o := &order.Order{}
	vs := validateOrder(o)

	assert.ElementsMatch(t, []string{"branch", "beverage", "payment"}, fields(vs))
}

func TestOrderUnknownBranchAndPayment(t *testing.T) {
	o := completeOrder()
	o.Branch = "Narnia Central"
	o.PaymentMethod = "voucher"

	vs := validateOrder(o)
	assert.ElementsMatch(t, []string{"branch", "payment"}, fields(vs))
}

func TestOrderBranchByID(t *testing.T) {
	o := completeOrder()
	o.Branch = "polanco"

	assert.Empty(t, validateOrder(o))
}

func TestOrderMissingRequiredModifier(t *testing.T) {
	o := completeOrder()
	o.Modifiers = nil

	vs := validateOrder(o)
	require.Len(t, vs, 1)
	assert.Equal(t, "modifier:tipo_leche", vs[0].Field)
}

func TestOrderOptionalGroupNeverBlocks(t *testing.T) {
	// an optional group may declare min >= 1, but the conversation never
	// asks for it, so an empty selection must not block finalization
	cat := testCatalog()
	capp := &cat.Categories["bebidas_calientes"][0]
	capp.ModifierGroups = append(capp.ModifierGroups, catalog.ModifierGroup{
		ID: "jarabe", Name: "Jarabe", Required: false, Min: 1, Max: 2,
		Options: []catalog.ModifierOption{{ID: "vainilla", Name: "Jarabe de vainilla"}},
	})

	vs := Order(completeOrder(), cat, testBranches(), catalog.DefaultPaymentMethods)
	assert.Empty(t, vs)
}

func TestOrderTooManyModifiers(t *testing.T) {
	o := completeOrder()
	o.Modifiers = []order.ModifierSelection{
		{GroupID: "tipo_leche", OptionID: "entera"},
		{GroupID: "tipo_leche", OptionID: "almendra"},
	}

	vs := validateOrder(o)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Reason, "at most")
}

func TestOrderUnknownSize(t *testing.T) {
	o := completeOrder()
	o.SizeID = "trenta"

	vs := validateOrder(o)
	require.Len(t, vs, 1)
	assert.Equal(t, "size", vs[0].Field)
}

func TestOrderUnknownOption(t *testing.T) {
	o := completeOrder()
	o.Modifiers = []order.ModifierSelection{{GroupID: "tipo_leche", OptionID: "avena"}}

	vs := validateOrder(o)
	require.Len(t, vs, 1)
	assert.Equal(t, "modifier:tipo_leche", vs[0].Field)
}

func TestOrderUnavailableProducts(t *testing.T) {
	o := completeOrder()
	o.Beverage = &order.ProductRef{ID: "retirado", Name: "Pike Place"}
	o.SizeID = ""
	o.Modifiers = nil
	o.Food = &order.ProductRef{ID: "agotado", Name: "Panqué de Nuez"}

	vs := validateOrder(o)
	assert.ElementsMatch(t, []string{"beverage", "food"}, fields(vs))
}

func TestOrderVanishedBeverage(t *testing.T) {
	o := completeOrder()
	o.Beverage = &order.ProductRef{ID: "fantasma", Name: "Fantasma"}

	vs := validateOrder(o)
	require.Len(t, vs, 1)
	assert.Equal(t, "beverage", vs[0].Field)
}
