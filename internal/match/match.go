// Package match resolves noisy utterances against catalog entities through
// an ordered cascade: exact, space-insensitive, keyword alias, token
// overlap, and for suggestion lists bounded edit distance and ordinal
// selection. Absence of a match is a normal outcome, never an error.
package match

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	log "log/slog"

	"caffi/internal/catalog"
	"caffi/pkg/textnorm"
)

// Result reports the entity a cascade resolved, if any. When Found is
// false, Suggestions carries up to three alternatives to offer back.
type Result struct {
	Found       bool
	Product     *catalog.Product
	Size        *catalog.Size
	Option      *catalog.ModifierOption
	Suggestions []string
}

type Matcher struct {
	cat *catalog.Catalog
	now func() time.Time
}

func New(cat *catalog.Catalog) *Matcher {
	return &Matcher{cat: cat, now: time.Now}
}

// tokenScoreFloor is the token-overlap acceptance threshold for products
// and sizes. Modifier options match without a floor, first hit wins.
const tokenScoreFloor = 0.5

// Product resolves an utterance to a product of the given categories (nil
// means the whole catalog).
func (m *Matcher) Product(utterance string, categories []string) Result {
	input := textnorm.Normalize(utterance)
	products := m.cat.Products(categories)
	if input == "" || len(products) == 0 {
		return Result{Suggestions: m.productSuggestions(categories)}
	}

	// exact
	for i := range products {
		if textnorm.Normalize(products[i].Name) == input {
			return Result{Found: true, Product: &products[i]}
		}
	}

	// space-insensitive
	bare := textnorm.StripSpaces(input)
	for i := range products {
		if textnorm.StripSpaces(textnorm.Normalize(products[i].Name)) == bare {
			return Result{Found: true, Product: &products[i]}
		}
	}

	// keyword alias
	for i := range products {
		if aliasHit(input, textnorm.Normalize(products[i].Name)) {
			log.Debug("product matched via alias", "input", input, "product", products[i].Name)
			return Result{Found: true, Product: &products[i]}
		}
	}

	// token overlap
	inputTokens := contentTokens(input)
	var best *catalog.Product
	bestScore := 0.0
	for i := range products {
		candTokens := textnorm.Tokens(textnorm.Normalize(products[i].Name), 1)
		if score := tokenOverlap(inputTokens, candTokens); score > bestScore {
			bestScore = score
			best = &products[i]
		}
	}
	if best != nil && bestScore >= tokenScoreFloor {
		log.Debug("product matched via tokens", "input", input, "product", best.Name, "score", bestScore)
		return Result{Found: true, Product: best}
	}

	return Result{Suggestions: m.productSuggestions(categories)}
}

var ozRe = regexp.MustCompile(`(\d+)\s*oz`)

// Size resolves an utterance against the product's declared sizes.
func (m *Matcher) Size(utterance string, p *catalog.Product) Result {
	input := textnorm.Normalize(utterance)
	if input == "" || len(p.Sizes) == 0 {
		return Result{Suggestions: SizeLabels(p)}
	}

	// full name, exact or contained
	for i := range p.Sizes {
		name := textnorm.Normalize(p.Sizes[i].Name)
		if name == input || strings.Contains(input, name) {
			return Result{Found: true, Size: &p.Sizes[i]}
		}
	}

	// customer vocabulary first: "extra grande" must resolve via its
	// alias before the bare word "grande" can shadow it
	for _, sa := range sizeAliases {
		if !strings.Contains(input, sa.alias) {
			continue
		}
		for _, kw := range sa.sizes {
			for i := range p.Sizes {
				if strings.Contains(textnorm.Normalize(p.Sizes[i].Name), kw) {
					return Result{Found: true, Size: &p.Sizes[i]}
				}
			}
		}
	}

	// any word of the size name ("Grande (16oz - 437ml)" hits on "grande")
	for i := range p.Sizes {
		for _, w := range textnorm.Tokens(textnorm.Normalize(p.Sizes[i].Name), 3) {
			if strings.Contains(input, w) {
				return Result{Found: true, Size: &p.Sizes[i]}
			}
		}
	}

	// ounce counts from the menu board
	if mts := ozRe.FindStringSubmatch(input); mts != nil {
		oz, _ := strconv.Atoi(mts[1])
		idx := len(p.Sizes) - 1
		switch {
		case oz <= 12:
			idx = 0
		case oz <= 16 && len(p.Sizes) > 1:
			idx = 1
		}
		return Result{Found: true, Size: &p.Sizes[idx]}
	}

	return Result{Suggestions: SizeLabels(p)}
}

// Option resolves an utterance against a modifier group. The cascade is
// looser than for products: the first direct, normalized, alias or token
// hit wins without a score floor.
func (m *Matcher) Option(utterance string, g *catalog.ModifierGroup) Result {
	raw := strings.ToLower(strings.TrimSpace(utterance))
	input := textnorm.Normalize(utterance)
	if input == "" || len(g.Options) == 0 {
		return Result{Suggestions: optionNames(g, 3)}
	}

	// direct containment on the raw lowercase pair
	for i := range g.Options {
		name := strings.ToLower(g.Options[i].Name)
		if strings.Contains(raw, name) || strings.Contains(name, raw) {
			return Result{Found: true, Option: &g.Options[i]}
		}
	}

	// normalized containment
	for i := range g.Options {
		name := textnorm.Normalize(g.Options[i].Name)
		if strings.Contains(input, name) || strings.Contains(name, input) {
			return Result{Found: true, Option: &g.Options[i]}
		}
	}

	// keyword alias
	for i := range g.Options {
		if aliasHit(input, textnorm.Normalize(g.Options[i].Name)) {
			return Result{Found: true, Option: &g.Options[i]}
		}
	}

	// token containment, either direction, no floor
	inputTokens := textnorm.Tokens(input, 4)
	for i := range g.Options {
		candTokens := textnorm.Tokens(textnorm.Normalize(g.Options[i].Name), 1)
		for _, it := range inputTokens {
			for _, ct := range candTokens {
				if strings.Contains(it, ct) || strings.Contains(ct, it) {
					return Result{Found: true, Option: &g.Options[i]}
				}
			}
		}
	}

	return Result{Suggestions: optionNames(g, 3)}
}

var numberWords = map[string]int{
	"uno": 1, "dos": 2, "tres": 3, "cuatro": 4, "cinco": 5,
	"primera": 1, "primero": 1, "segunda": 2, "segundo": 2, "tercera": 3, "tercero": 3,
}

// FromSuggestions matches an utterance against a previously offered
// suggestion list: ordinal selection first ("2", "número 2", "la segunda"),
// then bounded edit distance. Returns the selected index.
func FromSuggestions(utterance string, suggestions []string) (int, bool) {
	input := textnorm.Normalize(utterance)
	if input == "" || len(suggestions) == 0 {
		return 0, false
	}

	if n, ok := ordinal(input); ok {
		if n >= 1 && n <= len(suggestions) {
			return n - 1, true
		}
		return 0, false
	}

	bestIdx, bestDist := -1, 0
	for i, s := range suggestions {
		cand := textnorm.Normalize(s)
		if !withinEditBudget(input, cand) {
			continue
		}
		d := levenshtein(input, cand)
		if bestIdx < 0 || d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx < 0 {
		return 0, false
	}
	return bestIdx, true
}

func ordinal(input string) (int, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(input, "numero"))
	s = strings.TrimSpace(strings.TrimPrefix(s, "la"))
	s = strings.TrimSpace(strings.TrimPrefix(s, "el"))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if n, ok := numberWords[s]; ok {
		return n, true
	}
	return 0, false
}

func aliasHit(input, candidate string) bool {
	for key, variants := range keywordAliases {
		if !strings.Contains(candidate, key) {
			continue
		}
		for _, v := range variants {
			if strings.Contains(input, v) {
				return true
			}
		}
	}
	return false
}

// contentTokens drops stopwords and short words so the overlap score is
// computed on the product-bearing part of the utterance.
func contentTokens(input string) []string {
	var out []string
	for _, t := range textnorm.Tokens(input, 3) {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

func tokenOverlap(inputTokens, candTokens []string) float64 {
	if len(inputTokens) == 0 {
		return 0
	}
	matched := 0
	for _, it := range inputTokens {
		for _, ct := range candTokens {
			if tokensAgree(it, ct) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(inputTokens))
}

// tokensAgree accepts substring or superstring token pairs, and for longer
// words a single edit ("capuchino" vs "cappuccino").
func tokensAgree(a, b string) bool {
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	if len(a) >= 5 && len(b) >= 5 {
		return levenshtein(a, b) <= 1
	}
	return false
}

func (m *Matcher) productSuggestions(categories []string) []string {
	var names []string
	if categories == nil || overlaps(categories, catalog.BeverageCategories) {
		for _, p := range m.cat.Recommend(catalog.MomentAt(m.now()), 3) {
			names = append(names, p.Name)
		}
	}
	for _, p := range m.cat.Products(categories) {
		if len(names) >= 3 {
			break
		}
		if p.Available && !containsName(names, p.Name) {
			names = append(names, p.Name)
		}
	}
	if len(names) > 3 {
		names = names[:3]
	}
	return names
}

// SizeLabels returns the display part of each size name, the text before
// any parenthesized volume.
func SizeLabels(p *catalog.Product) []string {
	var out []string
	for _, s := range p.Sizes {
		out = append(out, SizeLabel(s.Name))
	}
	return out
}

func SizeLabel(name string) string {
	return strings.TrimSpace(strings.SplitN(name, "(", 2)[0])
}

func optionNames(g *catalog.ModifierGroup, limit int) []string {
	var out []string
	for _, o := range g.Options {
		if len(out) >= limit {
			break
		}
		out = append(out, o.Name)
	}
	return out
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func containsName(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
