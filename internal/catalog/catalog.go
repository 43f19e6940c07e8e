// Package catalog loads the product table that backs every product page.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/promostore/storefront/internal/domain"
)

//go:embed products.yaml
var embeddedProducts []byte

// Catalog is an immutable, validated product table.
type Catalog struct {
	products []domain.Product
	bySlug   map[string]int
}

type catalogFile struct {
	Products map[string]domain.Product `yaml:"products"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embeddedProducts)
}

// LoadFile reads a catalog table from disk, replacing the embedded one.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog table. Products are ordered by
// category, then name.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, errors.New("catalog: no products defined")
	}

	products := make([]domain.Product, 0, len(file.Products))
	var problems []string
	for slug, product := range file.Products {
		product.Slug = strings.TrimSpace(slug)
		if err := validateProduct(product); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		products = append(products, product)
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("catalog: invalid products: %s", strings.Join(problems, "; "))
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].Name < products[j].Name
	})

	bySlug := make(map[string]int, len(products))
	for i, product := range products {
		bySlug[product.Slug] = i
	}
	return &Catalog{products: products, bySlug: bySlug}, nil
}

// Products returns a copy of the ordered product list.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks a product up by slug.
func (c *Catalog) Product(slug string) (domain.Product, bool) {
	idx, ok := c.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[idx], true
}

func (c *Catalog) Len() int { return len(c.products) }

func validateProduct(p domain.Product) error {
	if p.Slug == "" || p.Slug != strings.ToLower(p.Slug) || strings.ContainsAny(p.Slug, " /?#") {
		return fmt.Errorf("%q: slug must be lower-case and url safe", p.Slug)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%s: name is required", p.Slug)
	}
	if len(p.PricingTiers) == 0 {
		return fmt.Errorf("%s: at least one pricing tier is required", p.Slug)
	}
	var previous int64
	for i, tier := range p.PricingTiers {
		if tier.MinQuantity <= 0 || (i > 0 && tier.MinQuantity <= previous) {
			return fmt.Errorf("%s: pricing tiers must have strictly ascending positive quantities", p.Slug)
		}
		if tier.UnitPrice.IsNegative() {
			return fmt.Errorf("%s: pricing tier %d has a negative price", p.Slug, i)
		}
		previous = tier.MinQuantity
	}
	if p.MinimumOrder > 0 && p.MinimumOrder < p.PricingTiers[0].MinQuantity {
		return fmt.Errorf("%s: minimum order is below the first pricing tier", p.Slug)
	}
	return nil
}
