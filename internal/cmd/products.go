package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/gravitrone/picker/internal/api"
)

// ProductsCmd returns the `picker products` command.
func ProductsCmd() *cobra.Command {
	var (
		filter   api.ProductFilter
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List one page of the product catalog",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			if pageSize <= 0 {
				pageSize = cfg.PageSize
			}
			if page < 1 {
				page = 1
			}

			result, err := client.QueryProducts(filter, page, pageSize)
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			printProducts(c.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter.Country, "country", "c", api.FilterAll, "country of origin")
	cmd.Flags().StringVarP(&filter.Type, "type", "t", api.FilterAll, "record type (Generator, Part)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default from config)")
	return cmd
}

func printProducts(w io.Writer, page *api.ProductPage) {
	if len(page.Records) == 0 {
		fmt.Fprintln(w, "no products found")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Country of Origin"), bold.Sprint("Type"), bold.Sprint("Price USD"))
	for _, p := range page.Records {
		tbl.AddRow(p.ID, p.Name, p.Country, p.RecordType, p.PriceLabel())
	}
	fmt.Fprintln(w, tbl)

	faint := color.New(color.Faint)
	faint.Fprintf(w, "page %d of %d (%d products)\n", page.Page, page.TotalPages, page.TotalRecords)
}
