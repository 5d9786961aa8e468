package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bher20/locadora/internal/listings"
	"github.com/bher20/locadora/internal/quote"
)

func newListingsCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Print the current listing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var t *listings.Table
			if refresh {
				if t, err = a.listings.ForceRefresh(cmd.Context()); err != nil {
					return err
				}
			} else {
				t = a.listings.Table(cmd.Context())
			}
			if t.Warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "aviso: %s\n", t.Warning)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VEÍCULO\tGRUPO\tMOTOR\tCÂMBIO\tBAIXA\tALTA\tSTATUS\tOFERTA")
			for _, l := range t.Listings {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					l.Name, l.Group, l.Engine, l.Transmission,
					money(l.LowRate), money(l.HighRate), l.Status, leadMark(quote.IsLead(l, a.ceiling)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the spreadsheet now instead of using the cache")
	return cmd
}

func money(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return quote.FormatBRL(d)
}

func leadMark(lead bool) string {
	if lead {
		return "isca"
	}
	return ""
}
