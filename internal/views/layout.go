package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// Layout wraps a page body in the shared document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<!DOCTYPE html><html lang=\"en-GB\"><head><meta charset=\"utf-8\">")
		h.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		h.raw("<title>")
		h.text(title)
		h.raw(" | PromoStore</title>")
		h.raw("<script")
		h.attr("src", htmxScript)
		h.raw(" defer></script></head><body><header class=\"site-header\"><a href=\"/products\">PromoStore</a></header><main>")
		h.component(body)
		h.raw("</main></body></html>")
		return h.err
	})
}

// NotFound is the page shown for unknown HTML routes and product slugs.
func NotFound(message string) templ.Component {
	return Layout("Not found", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<section class=\"not-found\" data-page=\"not-found\"><h1>Page not found</h1><p>")
		h.text(message)
		h.raw("</p><a href=\"/products\">Browse products</a></section>")
		return h.err
	}))
}
