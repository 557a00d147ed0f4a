package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MikeMC777/restaurant-pos/internal/menu"
)

// menuFile is the seed format:
//
//	items:
//	  - name: Margherita
//	    category: pizza
//	    price: "11.50"
type menuFile struct {
	Items []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Category    string `yaml:"category"`
		Price       string `yaml:"price"`
		Available   *bool  `yaml:"available"`
		InventoryID string `yaml:"inventory_id"`
	} `yaml:"items"`
}

// parseMenuFile decodes and validates every entry; the first invalid one
// aborts the whole file.
func parseMenuFile(r io.Reader) ([]*menu.Item, error) {
	var f menuFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid menu file: %w", err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("menu file has no items")
	}
	out := make([]*menu.Item, 0, len(f.Items))
	for i, e := range f.Items {
		req := menu.CreateItemRequest{
			Name:        e.Name,
			Description: e.Description,
			Category:    e.Category,
			Price:       e.Price,
			Available:   e.Available,
		}
		if e.InventoryID != "" {
			inv := e.InventoryID
			req.InventoryID = &inv
		}
		it, err := req.Validate()
		if err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i+1, e.Name, err)
		}
		out = append(out, it)
	}
	return out, nil
}
