package main

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localrivet/storefront/catalog"
	"github.com/localrivet/storefront/markdown"
	"github.com/localrivet/storefront/shop"
)

var (
	renderFormat string
	renderPretty bool
	renderOrder  bool
)

var renderCartCmd = &cobra.Command{
	Use:   "render-cart [item=quantity ...]",
	Short: "Print a sample cart or order",
	Long: `render-cart fills a cart with one of every item, or with the given
item=quantity pairs, and prints it. With --order the cart is checked out first.`,
	RunE: runRenderCart,
}

func init() {
	renderCartCmd.Flags().StringVarP(&renderFormat, "format", "f", "markdown", "output format: markdown, json or xml")
	renderCartCmd.Flags().BoolVar(&renderPretty, "pretty", false, "style markdown output for the terminal")
	renderCartCmd.Flags().BoolVar(&renderOrder, "order", false, "check out and print the order")
}

func runRenderCart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat := catalog.Default()
	session := shop.NewSession(cat, shopSettings(cfg))

	if len(args) == 0 {
		for _, it := range cat.Items() {
			if err := session.AddToCart(it.Label, 1); err != nil {
				return err
			}
		}
	}
	for _, arg := range args {
		name, qty, err := parseItemQuantity(arg)
		if err != nil {
			return err
		}
		if err := session.AddToCart(name, qty); err != nil {
			return err
		}
	}

	var v any = session.Cart()
	if renderOrder {
		v = session.Checkout()
	}

	var out string
	switch renderFormat {
	case "markdown", "md":
		out = markdown.Render(v)
		return printMarkdown(cmd.OutOrStdout(), out, !renderPretty)
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		out = string(b) + "\n"
	case "xml":
		b, err := xml.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		out = string(b) + "\n"
	default:
		return fmt.Errorf("unknown format %q", renderFormat)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
