package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/promostore/storefront/internal/catalog"
	"github.com/promostore/storefront/internal/views"
)

func newCatalogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the product table",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "product table to use instead of the embedded one")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog products and their starting prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalog(file)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "SLUG\tCATEGORY\tNAME\tFROM")
			for _, p := range c.Products() {
				from := "-"
				if price, ok := p.StartingPrice(); ok {
					from = views.Money(price)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Slug, p.Category, p.Name, from)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the product table and render every description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalog(file)
			if err != nil {
				return err
			}
			renderer := catalog.NewRenderer()
			for _, p := range c.Products() {
				if _, err := renderer.Render(p.Description); err != nil {
					return fmt.Errorf("%s: %w", p.Slug, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d products\n", c.Len())
			return nil
		},
	})
	return cmd
}

func loadCatalog(file string) (*catalog.Catalog, error) {
	if file != "" {
		return catalog.LoadFile(file)
	}
	return catalog.Default()
}
