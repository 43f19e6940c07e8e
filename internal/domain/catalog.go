package domain

import "github.com/shopspring/decimal"

// PricingTier is the unit price that applies from MinQuantity upwards.
type PricingTier struct {
	MinQuantity int64           `yaml:"min_quantity" json:"minQuantity"`
	UnitPrice   decimal.Decimal `yaml:"unit_price" json:"unitPrice"`
}

type Specification struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Product is one record of the catalog table. Description is markdown.
type Product struct {
	Slug           string          `yaml:"slug" json:"slug"`
	Name           string          `yaml:"name" json:"name"`
	Category       string          `yaml:"category" json:"category"`
	Summary        string          `yaml:"summary" json:"summary"`
	Description    string          `yaml:"description" json:"description"`
	Image          string          `yaml:"image" json:"image"`
	Colours        []string        `yaml:"colours" json:"colours"`
	PrintMethods   []string        `yaml:"print_methods" json:"printMethods"`
	LeadTime       string          `yaml:"lead_time" json:"leadTime"`
	MinimumOrder   int64           `yaml:"minimum_order" json:"minimumOrder"`
	PricingTiers   []PricingTier   `yaml:"pricing_tiers" json:"pricingTiers"`
	Specifications []Specification `yaml:"specifications" json:"specifications"`
}

// UnitPriceFor returns the price of the highest tier whose minimum quantity
// does not exceed quantity. Tiers must be sorted ascending. Quantities below
// the first tier report false.
func (p Product) UnitPriceFor(quantity int64) (decimal.Decimal, bool) {
	var (
		price decimal.Decimal
		found bool
	)
	for _, tier := range p.PricingTiers {
		if quantity < tier.MinQuantity {
			break
		}
		price, found = tier.UnitPrice, true
	}
	return price, found
}

// StartingPrice is the unit price of the largest quantity tier, shown as "from" on listings.
func (p Product) StartingPrice() (decimal.Decimal, bool) {
	if len(p.PricingTiers) == 0 {
		return decimal.Decimal{}, false
	}
	return p.PricingTiers[len(p.PricingTiers)-1].UnitPrice, true
}
