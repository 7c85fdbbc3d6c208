package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Americano", "americano"},
		{"accents", "Café con Panqué", "cafe con panque"},
		{"mojibake", "CafÃ© MalÃ³", "cafe malo"},
		{"enye", "tamaño pequeño", "tamano pequeno"},
		{"punctuation", "¿Qué tamaño quieres?", "que tamano quieres"},
		{"trademark", "Starbucks® Reserve™", "starbucks reserve"},
		{"whitespace", "  un   latte  ", "un latte"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Café MÃ³cha®", "¡Un Frappuccino® de Caramelo!", "tamaño"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestStripSpaces(t *testing.T) {
	assert.Equal(t, "cafelatte", StripSpaces("cafe latte"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"quiero", "latte"}, Tokens("quiero un latte", 3))
	assert.Nil(t, Tokens("a un de", 3))
}
