package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		utterance string
		want      Intent
	}{
		{"quiero hacer un nuevo pedido", IntentNewOrder},
		{"agrega un croissant", IntentAdd},
		{"añade una galleta", IntentAdd},
		{"quita el panqué", IntentRemove},
		{"ya no quiero el croissant", IntentRemove},
		{"cambia el tamaño", IntentChange},
		{"si, está bien", IntentNone},
		{"", IntentNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectIntent(tc.utterance), "utterance %q", tc.utterance)
	}
}

func TestIsAffirmative(t *testing.T) {
	yes := []string{"si", "Sí", "claro que sí", "está bien", "confirmo", "ok"}
	for _, u := range yes {
		assert.True(t, IsAffirmative(u), "utterance %q", u)
	}

	no := []string{"sin leche", "no", "un latte", ""}
	for _, u := range no {
		assert.False(t, IsAffirmative(u), "utterance %q", u)
	}
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative("no, gracias"))
	assert.True(t, IsNegative("nada más"))
	assert.False(t, IsNegative("un latte con nogal"))
	assert.False(t, IsNegative("si"))
}
