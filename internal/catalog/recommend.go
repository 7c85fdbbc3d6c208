package catalog

import (
	"strings"
	"time"
)

// DayMoment buckets the clock into the three service windows the
// recommendation table is keyed by.
type DayMoment string

const (
	Morning   DayMoment = "manana"
	Afternoon DayMoment = "tarde"
	Evening   DayMoment = "noche"
)

// MomentAt buckets an hour: 06-11 morning, 12-18 afternoon, else evening.
func MomentAt(t time.Time) DayMoment {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return Morning
	case h >= 12 && h < 19:
		return Afternoon
	default:
		return Evening
	}
}

// recommendedByMoment lists beverage names in preference order per moment.
var recommendedByMoment = map[DayMoment][]string{
	Morning:   {"Caffe Latte", "Cappuccino", "Americano", "Espresso"},
	Afternoon: {"Frappuccino de Caramelo", "Iced Latte", "Caffe Latte", "Iced Americano"},
	Evening:   {"Caffe Mocha", "Hot Chocolate", "Chai Tea Latte", "Caramel Macchiato"},
}

// Recommend resolves the moment's recommendation names against the catalog
// and tops the list up from the flattened beverage categories until limit
// products are found.
func (c *Catalog) Recommend(moment DayMoment, limit int) []Product {
	names := recommendedByMoment[moment]
	if names == nil {
		names = recommendedByMoment[Afternoon]
	}

	var out []Product
	have := map[string]bool{}
	for _, name := range names {
		if len(out) >= limit {
			break
		}
		if p := c.findByLooseName(name); p != nil && p.Available && !have[p.ID] {
			out = append(out, *p)
			have[p.ID] = true
		}
	}

	for _, p := range c.Products(BeverageCategories) {
		if len(out) >= limit {
			break
		}
		if p.Available && !have[p.ID] {
			out = append(out, p)
			have[p.ID] = true
		}
	}
	return out
}

func (c *Catalog) findByLooseName(name string) *Product {
	want := strings.ToLower(name)
	for _, cat := range BeverageCategories {
		for i := range c.Categories[cat] {
			got := strings.ToLower(c.Categories[cat][i].Name)
			if got == want || strings.Contains(got, want) || strings.Contains(want, got) {
				return &c.Categories[cat][i]
			}
		}
	}
	return nil
}
