package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bher20/locadora/internal/quote"
)

func newQuoteCmd() *cobra.Command {
	var req quote.Request
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print a quotation message ready to paste into an email",
		Example: `  locadora quote --vehicle "Jeep Renegade" --pickup 01/03/2025 --return 04/03/2025 \
    --location aeroporto --customer Ana`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			q, err := a.quotes.Quote(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if q.Warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "aviso: %s\n", q.Warning)
			}
			fmt.Fprintln(out, q.Message.Text())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Vehicle, "vehicle", "", "vehicle name as listed in the spreadsheet")
	f.StringVar(&req.PickupDate, "pickup", "", "pickup date (dd/mm/yyyy or yyyy-mm-dd)")
	f.StringVar(&req.PickupTime, "pickup-time", "", "pickup time (HH:MM, default 10:00)")
	f.StringVar(&req.ReturnDate, "return", "", "return date (dd/mm/yyyy or yyyy-mm-dd)")
	f.StringVar(&req.ReturnTime, "return-time", "", "return time (HH:MM, default 10:00)")
	f.StringVar(&req.Location, "location", "loja-centro", "pickup location key or name")
	f.StringVar(&req.CustomerName, "customer", "", "customer name")
	_ = cmd.MarkFlagRequired("vehicle")
	_ = cmd.MarkFlagRequired("pickup")
	_ = cmd.MarkFlagRequired("return")
	return cmd
}
