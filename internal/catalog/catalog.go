// Package catalog holds the fixed product table offered by the storefront.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

//go:embed products.yaml
var productsYAML []byte

var products = mustParse(productsYAML)

type entry struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
	Image string `yaml:"image"`
}

// Parse decodes a YAML product table. Ids must be positive and unique, names
// non-empty and prices non-negative decimals. An omitted image falls back to
// DefaultImage.
func Parse(data []byte) ([]domain.Product, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[int]bool, len(entries))
	out := make([]domain.Product, 0, len(entries))
	for i, e := range entries {
		if e.ID <= 0 {
			return nil, fmt.Errorf("catalog entry %d: id must be positive, got %d", i, e.ID)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %d", i, e.ID)
		}
		seen[e.ID] = true

		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: price %q: %w", i, e.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("catalog entry %d: price must not be negative", i)
		}

		image := e.Image
		if image == "" {
			image = DefaultImage(e.Name)
		}
		out = append(out, domain.Product{ID: e.ID, Name: e.Name, Price: price, Image: image})
	}
	return out, nil
}

// DefaultImage is the asset path used for an entry that names no image.
func DefaultImage(name string) string {
	return "images/" + slug.Generate(name) + ".jpeg"
}

func mustParse(data []byte) []domain.Product {
	p, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return p
}

// All returns the catalog in display order. The returned slice is a copy.
func All() []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}

// Find looks up a product by id.
func Find(id int) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Lookup is the read-only view of the catalog used by the storefront service.
type Lookup interface {
	All() []domain.Product
	Find(id int) (domain.Product, bool)
}

// Static is the Lookup backed by the built-in product table.
type Static struct{}

// All implements Lookup.
func (Static) All() []domain.Product { return All() }

// Find implements Lookup.
func (Static) Find(id int) (domain.Product, bool) { return Find(id) }
