package order

import (
	"strings"

	"caffi/pkg/textnorm"
)

// Intent is the closed set of overlay intents detected on top of the
// strict step sequence.
type Intent string

const (
	IntentNone     Intent = "none"
	IntentNewOrder Intent = "new_order"
	IntentAdd      Intent = "add"
	IntentRemove   Intent = "remove"
	IntentChange   Intent = "change"
)

var (
	newOrderKeywords = []string{
		"nuevo pedido", "otra orden", "otro pedido", "quiero pedir",
		"quiero ordenar", "hacer otro pedido", "otra vez",
	}
	addKeywords = []string{
		"agrega", "agregar", "anade", "anadir", "incluye",
		"quiero agregar", "tambien quiero", "y tambien",
	}
	removeKeywords = []string{
		"quita", "quitar", "elimina", "eliminar", "mejor no",
		"cancela", "ya no quiero",
	}
	changeKeywords = []string{
		"cambia", "cambiar", "modifica", "modificar", "corrige", "otra cosa",
	}
)

// DetectIntent classifies an utterance into one overlay intent by keyword
// table, first table hit wins.
func DetectIntent(utterance string) Intent {
	input := textnorm.Normalize(utterance)
	switch {
	case containsAny(input, newOrderKeywords):
		return IntentNewOrder
	case containsAny(input, addKeywords):
		return IntentAdd
	case containsAny(input, removeKeywords):
		return IntentRemove
	case containsAny(input, changeKeywords):
		return IntentChange
	}
	return IntentNone
}

var affirmativeWords = map[string]bool{
	"si": true, "claro": true, "correcto": true, "perfecto": true,
	"listo": true, "continua": true, "cerrar": true, "confirmar": true,
	"confirmo": true, "ok": true, "dale": true, "yes": true,
}

var affirmativePhrases = []string{"esta bien", "asi esta", "todo bien", "por supuesto"}

var negativeWords = map[string]bool{
	"no": true, "nada": true, "ninguno": true, "ninguna": true, "nothing": true,
}

// IsAffirmative reports a yes-like utterance. Single keywords only count
// as whole words so "sin leche" is not read as "si".
func IsAffirmative(utterance string) bool {
	input := textnorm.Normalize(utterance)
	for _, tok := range strings.Fields(input) {
		if affirmativeWords[tok] {
			return true
		}
	}
	for _, phrase := range affirmativePhrases {
		if strings.Contains(input, phrase) {
			return true
		}
	}
	return false
}

// IsNegative reports a no-like utterance, whole words only.
func IsNegative(utterance string) bool {
	input := textnorm.Normalize(utterance)
	for _, tok := range strings.Fields(input) {
		if negativeWords[tok] {
			return true
		}
	}
	return false
}

func containsAny(input string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(input, kw) {
			return true
		}
	}
	return false
}
