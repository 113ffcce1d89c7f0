package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/bus"
	"github.com/gravitrone/picker/internal/picker"
)

// SubmitCmd returns the `picker submit` command.
func SubmitCmd() *cobra.Command {
	var (
		name       string
		productIDs []string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create an opportunity from product ids",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			opp, err := submitProducts(client, cfg.AccountID, name, productIDs)
			if err != nil {
				return err
			}
			printOpportunity(c.OutOrStdout(), opp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "opportunity name")
	cmd.Flags().StringArrayVarP(&productIDs, "product", "p", nil, "product id (repeatable)")
	return cmd
}

type submitClient interface {
	picker.Service
	picker.DetailFetcher
}

// submitProducts runs the same selection and submission path as the TUI:
// the products become the visible page, all of them get selected, and the
// session submits.
func submitProducts(client submitClient, accountID, name string, ids []string) (*api.Opportunity, error) {
	products := make([]api.Product, 0, len(ids))
	for _, id := range ids {
		p, err := picker.FetchDetail(client, id)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	session := picker.NewSession(client, bus.New(), accountID, len(products))
	session.Present(products)
	session.SelectAllVisible()
	return session.Submit(name)
}

func printOpportunity(w io.Writer, opp *api.Opportunity) {
	green := color.New(color.FgGreen, color.Bold)
	green.Fprintf(w, "%d product(s) submitted.\n", len(opp.ProductIDs))
	fmt.Fprintf(w, "opportunity: %s\n", opp.ID)
	fmt.Fprintf(w, "name: %s\n", opp.Name)
	if opp.Amount > 0 {
		fmt.Fprintf(w, "amount: %s$\n", strconv.FormatFloat(opp.Amount, 'f', -1, 64))
	}
}
