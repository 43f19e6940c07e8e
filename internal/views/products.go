package views

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/promostore/storefront/internal/domain"
)

// ProductIndex lists every catalog product with its starting price.
func ProductIndex(products []domain.Product) templ.Component {
	return Layout("Products", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<h1>Promotional products</h1><ul class=\"product-grid\" data-page=\"product-index\">")
		for _, product := range products {
			h.raw("<li class=\"product-card\"")
			h.attr("data-slug", product.Slug)
			h.raw("><a")
			h.attr("href", ProductPath(product.Slug))
			h.raw("><h2>")
			h.text(product.Name)
			h.raw("</h2></a><p class=\"category\">")
			h.text(product.Category)
			h.raw("</p><p class=\"summary\">")
			h.text(product.Summary)
			h.raw("</p>")
			if price, ok := product.StartingPrice(); ok {
				h.raw("<p class=\"from-price\">From ")
				h.text(Money(price))
				h.raw("</p>")
			}
			h.raw("</li>")
		}
		h.raw("</ul>")
		return h.err
	}))
}

// ProductDetail is the shared template every product page renders through.
// descriptionHTML must already be sanitised.
func ProductDetail(product domain.Product, descriptionHTML string) templ.Component {
	return Layout(product.Name, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<article class=\"product\" data-page=\"product\"")
		h.attr("data-slug", product.Slug)
		h.raw("><h1>")
		h.text(product.Name)
		h.raw("</h1>")
		if product.Image != "" {
			h.raw("<img")
			h.attr("src", product.Image)
			h.attr("alt", product.Name)
			h.raw(">")
		}
		h.raw("<p class=\"summary\">")
		h.text(product.Summary)
		h.raw("</p><div class=\"description\">")
		h.component(templ.Raw(descriptionHTML))
		h.raw("</div>")

		writeFacts(h, product)
		writePricingTiers(h, product.PricingTiers)
		writeSpecifications(h, product.Specifications)

		h.raw("</article>")
		return h.err
	}))
}

func ProductPath(slug string) string {
	return "/products/" + url.PathEscape(slug)
}

func writeFacts(h *htmlWriter, product domain.Product) {
	h.raw("<dl class=\"facts\">")
	fact := func(label, value string) {
		if value == "" {
			return
		}
		h.raw("<dt>")
		h.text(label)
		h.raw("</dt><dd>")
		h.text(value)
		h.raw("</dd>")
	}
	fact("Colours", strings.Join(product.Colours, ", "))
	fact("Print methods", strings.Join(product.PrintMethods, ", "))
	fact("Lead time", product.LeadTime)
	if product.MinimumOrder > 0 {
		fact("Minimum order", Quantity(product.MinimumOrder))
	}
	h.raw("</dl>")
}

func writePricingTiers(h *htmlWriter, tiers []domain.PricingTier) {
	if len(tiers) == 0 {
		return
	}
	h.raw("<table class=\"pricing\"><thead><tr><th>Quantity</th><th>Unit price</th></tr></thead><tbody>")
	for i, tier := range tiers {
		label := Quantity(tier.MinQuantity) + "+"
		if i+1 < len(tiers) {
			label = Quantity(tier.MinQuantity) + " - " + Quantity(tiers[i+1].MinQuantity-1)
		}
		h.raw("<tr class=\"pricing-tier\"><td>")
		h.text(label)
		h.raw("</td><td>")
		h.text(Money(tier.UnitPrice))
		h.raw("</td></tr>")
	}
	h.raw("</tbody></table>")
}

func writeSpecifications(h *htmlWriter, specs []domain.Specification) {
	if len(specs) == 0 {
		return
	}
	h.raw("<table class=\"specifications\"><tbody>")
	for _, spec := range specs {
		h.raw("<tr><th>")
		h.text(spec.Label)
		h.raw("</th><td>")
		h.text(spec.Value)
		h.raw("</td></tr>")
	}
	h.raw("</tbody></table>")
}
