// Package catalog holds the read-only menu view the rest of the engine
// works against: products grouped by category, their sizes and modifier
// groups, plus the branch and payment method enumerations.
package catalog

// Size is a serving size with its own absolute price, not a delta.
type Size struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ModifierOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// PricePerSize maps size id to surcharge. Missing or zero means no
	// surcharge for that size.
	PricePerSize map[string]float64 `json:"price_per_size,omitempty"`
}

type ModifierGroup struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Required bool             `json:"required"`
	Min      int              `json:"min"`
	Max      int              `json:"max"`
	Options  []ModifierOption `json:"options"`
}

type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	BasePrice      float64         `json:"base_price,omitempty"`
	Sizes          []Size          `json:"sizes,omitempty"`
	DefaultSize    *Size           `json:"default_size,omitempty"`
	ModifierGroups []ModifierGroup `json:"modifier_groups,omitempty"`
	Available      bool            `json:"available"`
}

// Catalog maps category name to its products. Categories are ordered so
// suggestion fallbacks stay deterministic.
type Catalog struct {
	Categories map[string][]Product `json:"categories"`
	order      []string
}

// BeverageCategories and FoodCategories partition the catalog for matching:
// a beverage utterance is never resolved against pastries and vice versa.
var (
	BeverageCategories = []string{"bebidas_calientes", "bebidas_frias", "te"}
	FoodCategories     = []string{"alimentos_salados", "postres", "panaderia"}
)

// Branch is a physical pickup location.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PaymentMethod carries its loyalty divisor explicitly: one star per
// StarsDivisor pesos. Substring sniffing on the method name is not used.
type PaymentMethod struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StarsDivisor int    `json:"stars_divisor"`
}

// DefaultPaymentMethods mirrors the in-store offering. The Starbucks Card
// earns stars at twice the rate of the other methods.
var DefaultPaymentMethods = []PaymentMethod{
	{ID: "cash", Name: "Efectivo", StarsDivisor: 20},
	{ID: "card", Name: "Tarjeta bancaria", StarsDivisor: 20},
	{ID: "starbucks_card", Name: "Starbucks Card", StarsDivisor: 10},
}

// CategoryNames returns category names in load order, or map order for a
// hand-built catalog.
func (c *Catalog) CategoryNames() []string {
	if len(c.order) > 0 {
		return c.order
	}
	names := make([]string, 0, len(c.Categories))
	for _, known := range append(append([]string{}, BeverageCategories...), FoodCategories...) {
		if _, ok := c.Categories[known]; ok {
			names = append(names, known)
		}
	}
	for name := range c.Categories {
		if !contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Products returns the products of the given categories, flattened in
// order. Nil categories means the whole catalog.
func (c *Catalog) Products(categories []string) []Product {
	if categories == nil {
		categories = c.CategoryNames()
	}
	var out []Product
	for _, cat := range categories {
		out = append(out, c.Categories[cat]...)
	}
	return out
}

// FindByID looks a product up across every category.
func (c *Catalog) FindByID(id string) *Product {
	for _, cat := range c.CategoryNames() {
		for i := range c.Categories[cat] {
			if c.Categories[cat][i].ID == id {
				return &c.Categories[cat][i]
			}
		}
	}
	return nil
}

// HasSizes reports whether the product offers a real size choice. A single
// size is treated as fixed, the step machine never asks for it.
func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 1
}

func (p *Product) SizeByID(id string) *Size {
	for i := range p.Sizes {
		if p.Sizes[i].ID == id {
			return &p.Sizes[i]
		}
	}
	return nil
}

func (p *Product) GroupByID(id string) *ModifierGroup {
	for i := range p.ModifierGroups {
		if p.ModifierGroups[i].ID == id {
			return &p.ModifierGroups[i]
		}
	}
	return nil
}

// RequiredGroups returns the required modifier groups in declared order.
func (p *Product) RequiredGroups() []ModifierGroup {
	var out []ModifierGroup
	for _, g := range p.ModifierGroups {
		if g.Required {
			out = append(out, g)
		}
	}
	return out
}

func (g *ModifierGroup) OptionByID(id string) *ModifierOption {
	for i := range g.Options {
		if g.Options[i].ID == id {
			return &g.Options[i]
		}
	}
	return nil
}

// SurchargeFor returns the option's surcharge for the given size id, zero
// when none is declared.
func (o *ModifierOption) SurchargeFor(sizeID string) float64 {
	if o.PricePerSize == nil {
		return 0
	}
	return o.PricePerSize[sizeID]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
