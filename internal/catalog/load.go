package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	log "log/slog"
)

type menuFile struct {
	Categories map[string][]Product `json:"categories"`
	Order      []string             `json:"category_order"`
	Branches   []Branch             `json:"branches"`
	Payments   []PaymentMethod      `json:"payment_methods"`
}

// Load reads the simplified menu JSON produced by the menu export. The
// file is trusted: ids are unique and prices non-negative, Validate only
// guards against a broken export.
func Load(path string) (*Catalog, []Branch, []PaymentMethod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read menu: %w", err)
	}

	var mf menuFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, nil, nil, fmt.Errorf("parse menu: %w", err)
	}

	cat := &Catalog{Categories: mf.Categories, order: mf.Order}
	if err := cat.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("menu invariants: %w", err)
	}

	payments := mf.Payments
	if len(payments) == 0 {
		payments = DefaultPaymentMethods
	}

	log.Info("Menu loaded", "categories", len(mf.Categories), "branches", len(mf.Branches))
	return cat, mf.Branches, payments, nil
}

// Validate checks the structural invariants the engine relies on.
func (c *Catalog) Validate() error {
	for cat, products := range c.Categories {
		for _, p := range products {
			if p.ID == "" || p.Name == "" {
				return fmt.Errorf("category %s: product without id or name", cat)
			}
			seen := map[string]bool{}
			for _, s := range p.Sizes {
				if seen[s.ID] {
					return fmt.Errorf("product %s: duplicate size id %s", p.ID, s.ID)
				}
				seen[s.ID] = true
				if s.Price < 0 {
					return fmt.Errorf("product %s: negative price for size %s", p.ID, s.ID)
				}
			}
			for _, g := range p.ModifierGroups {
				if g.Min < 0 || g.Min > g.Max {
					return fmt.Errorf("product %s: group %s has min %d max %d", p.ID, g.ID, g.Min, g.Max)
				}
				if g.Required && g.Min < 1 {
					return fmt.Errorf("product %s: required group %s with min 0", p.ID, g.ID)
				}
			}
		}
	}
	return nil
}
