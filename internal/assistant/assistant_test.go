package assistant

import (
	"context"
	"testing"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caffi/internal/catalog"
	"caffi/internal/order"
	"caffi/internal/store"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{Categories: map[string][]catalog.Product{
		"bebidas_calientes": {
			{
				ID: "americano", Name: "Americano", BasePrice: 45, Available: true,
				Sizes: []catalog.Size{
					{ID: "tall", Name: "Tall (12oz - 355ml)", Price: 45},
					{ID: "grande", Name: "Grande (16oz - 473ml)", Price: 55},
				},
			},
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
						{ID: "almendra", Name: "Leche de almendra",
							PricePerSize: map[string]float64{"tall": 10, "grande": 12}},
					},
				}},
			},
		},
		"panaderia": {
			{ID: "croissant", Name: "Croissant de Mantequilla", BasePrice: 42, Available: true},
		},
	}}
}

func testAssistant(t *testing.T) (*Assistant, *store.Memory) {
	t.Helper()
	sessions := store.NewMemory()
	cache, err := store.NewReplyCache()
	require.NoError(t, err)

	a := New(testCatalog(),
		[]catalog.Branch{{ID: "reforma", Name: "Reforma 222"}, {ID: "polanco", Name: "Polanco Masaryk"}},
		catalog.DefaultPaymentMethods,
		sessions, cache, openai.Client{}, false)
	a.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return a, sessions
}

func turn(t *testing.T, a *Assistant, utterance string) Reply {
	t.Helper()
	reply, err := a.Turn(context.Background(), "caller-1", utterance)
	require.NoError(t, err, "turn %q", utterance)
	require.NotEmpty(t, reply.Text)
	return reply
}

func TestFullConversation(t *testing.T) {
	a, sessions := testAssistant(t)

	r := turn(t, a, "hola")
	assert.Equal(t, string(order.StepAwaitingReady), r.Step)

	r = turn(t, a, "si")
	assert.Equal(t, string(order.StepBranch), r.Step)

	r = turn(t, a, "en reforma")
	assert.Equal(t, string(order.StepBeverage), r.Step)

	r = turn(t, a, "quiero un capuchino grande")
	assert.Equal(t, "modifier:tipo_leche", r.Step)

	r = turn(t, a, "con leche entera")
	assert.Equal(t, string(order.StepFood), r.Step)

	r = turn(t, a, "no, gracias")
	assert.Equal(t, string(order.StepReview), r.Step)
	assert.Contains(t, r.Text, "Cappuccino")
	assert.Contains(t, r.Text, "64.00")

	r = turn(t, a, "si, todo bien")
	assert.Equal(t, string(order.StepConfirm), r.Step)

	r = turn(t, a, "si, confirmo")
	assert.Equal(t, string(order.StepPayment), r.Step)

	r = turn(t, a, "con mi starbucks card")
	require.True(t, r.Done)
	assert.Equal(t, string(order.StepDone), r.Step)
	assert.Regexp(t, `^SBX10\d{4}$`, r.OrderNumber)
	assert.Equal(t, 64.0, r.Total)
	assert.Equal(t, 6, r.Stars)

	sess, err := sessions.Get("caller-1")
	require.NoError(t, err)
	require.Len(t, sess.History, 1)
	assert.Equal(t, r.OrderNumber, sess.History[0].OrderNumber)
	assert.False(t, sess.Current.Welcomed, "a fresh order should follow finalization")
}

func TestTurnOneShotBeverageAndSize(t *testing.T) {
	a, sessions := testAssistant(t)

	turn(t, a, "hola")
	turn(t, a, "quiero un capuchino grande")

	sess, err := sessions.Get("caller-1")
	require.NoError(t, err)
	o := sess.Current
	require.NotNil(t, o.Beverage)
	assert.Equal(t, "cappuccino", o.Beverage.ID)
	assert.Equal(t, "grande", o.SizeID)
	// branch is still missing, the step machine asks for it next
	assert.Equal(t, order.StepBranch, order.NextStep(o, a.cat))
}

func TestTurnSuggestionsOnMiss(t *testing.T) {
	a, _ := testAssistant(t)

	turn(t, a, "hola")
	turn(t, a, "si")
	turn(t, a, "reforma")

	r := turn(t, a, "una pizza")
	assert.Equal(t, string(order.StepBeverage), r.Step)
	assert.Contains(t, r.Text, "1)")

	r = turn(t, a, "la 1")
	assert.NotEqual(t, string(order.StepBeverage), r.Step)
}

func TestTurnNewOrderIntentResets(t *testing.T) {
	a, sessions := testAssistant(t)

	turn(t, a, "hola")
	turn(t, a, "si")
	turn(t, a, "reforma")
	turn(t, a, "un americano grande")

	r := turn(t, a, "mejor quiero hacer un nuevo pedido")
	assert.Equal(t, string(order.StepBeverage), r.Step)

	sess, err := sessions.Get("caller-1")
	require.NoError(t, err)
	assert.Nil(t, sess.Current.Beverage)
	assert.Equal(t, "Reforma 222", sess.Current.Branch, "branch survives a restart")
}

func TestFinalizationWithOptionalGroup(t *testing.T) {
	a, _ := testAssistant(t)

	// an optional syrup group with min >= 1 is never asked for and must
	// not keep the order from closing
	capp := a.cat.FindByID("cappuccino")
	capp.ModifierGroups = append(capp.ModifierGroups, catalog.ModifierGroup{
		ID: "jarabe", Name: "Jarabe", Required: false, Min: 1, Max: 2,
		Options: []catalog.ModifierOption{{ID: "vainilla", Name: "Jarabe de vainilla"}},
	})

	for _, u := range []string{
		"hola", "si", "en reforma", "quiero un capuchino grande",
		"con leche entera", "no, gracias", "si, todo bien", "si, confirmo",
	} {
		turn(t, a, u)
	}

	r := turn(t, a, "en efectivo")
	assert.True(t, r.Done, "optional group must not block finalization")
	assert.NotEmpty(t, r.OrderNumber)
}

func TestTurnRepeatedGreetingStaysPut(t *testing.T) {
	a, _ := testAssistant(t)

	first := turn(t, a, "hola")
	// small talk does not advance the order, the same question comes back
	again := turn(t, a, "hola")
	assert.Equal(t, first.Text, again.Text)
	assert.Equal(t, string(order.StepAwaitingReady), again.Step)
}
