package match

// keywordAliases maps a canonical concept key, looked for in the candidate
// name, to the spelling variants an ASR transcript produces for it. A
// candidate whose name carries the key matches any utterance carrying one
// of the variants. Keys and variants are in normalized form.
var keywordAliases = map[string][]string{
	"espresso":     {"espresso", "expreso", "expres", "expresso", "esprreso"},
	"cappuccino":   {"capuchino", "capucino", "cappucino", "capuccino"},
	"latte":        {"late", "lattee"},
	"anniversary":  {"anniversary", "aniversario", "anniversario", "aniversary", "blend"},
	"entera":       {"entera", "completa", "normal", "whole"},
	"light":        {"light", "ligera", "baja grasa", "descremada", "semidescremada"},
	"coco":         {"coco", "coconut"},
	"sin leche":    {"sin leche", "no leche", "ninguna", "black", "negro"},
	"soya":         {"soya", "soy", "soja"},
	"almendra":     {"almendra", "almond"},
	"deslactosada": {"deslactosada", "lactose free", "sin lactosa"},
	"croissant":    {"croissant", "cruasan", "croissan", "croasan"},
	"muffin":       {"muffin", "mofin", "mufin", "magdalena"},
	"brownie":      {"brownie", "brauni", "browni"},
	"sandwich":     {"sandwich", "sanwich", "emparedado"},
	"bagel":        {"bagel", "baguel", "beigel"},
	"cookie":       {"cookie", "galleta", "coki"},
	"donut":        {"donut", "dona", "donuts"},
	"cake pop":     {"cake pop", "cakepop", "paleta"},
	"panini":       {"panini", "panino"},
	"baguette":     {"baguette", "baget", "baguete"},
}

// sizeAliases maps what customers call a size to keywords of the catalog
// size names. Declared order matters: longer aliases shadow their
// substrings ("extra grande" before "grande").
var sizeAliases = []struct {
	alias string
	sizes []string
}{
	{"extra grande", []string{"venti"}},
	{"muy grande", []string{"venti"}},
	{"el mas grande", []string{"venti"}},
	{"venti", []string{"venti"}},
	{"grande", []string{"grande"}},
	{"mediano", []string{"grande", "alto", "tall"}},
	{"medio", []string{"grande", "alto", "tall"}},
	{"regular", []string{"grande", "alto", "tall"}},
	{"pequeno", []string{"corto", "short", "tall", "alto", "chico"}},
	{"chico", []string{"corto", "short", "tall", "alto", "chico"}},
	{"corto", []string{"corto", "short"}},
	{"tall", []string{"tall", "alto"}},
	{"short", []string{"short", "corto"}},
	{"alto", []string{"alto", "tall"}},
}

// stopwords are filler tokens of ordering phrases, excluded from the
// token-overlap score so "quiero un capuchino" scores on the product words
// alone.
var stopwords = map[string]bool{
	"quiero":   true,
	"quisiera": true,
	"dame":     true,
	"deme":     true,
	"deseo":    true,
	"pedir":    true,
	"ordenar":  true,
	"tomar":    true,
	"gustaria": true,
	"por":      true,
	"favor":    true,
	"una":      true,
	"uno":      true,
	"con":      true,
	"para":     true,
	"mejor":    true,
	"gracias":  true,
}
