package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xavierca1/rog-store/internal/shipping"
)

// quote mostra a tabela regional usada quando a transportadora está fora; não precisa de banco.
var quoteCmd = &cobra.Command{
	Use:   "quote <cep>",
	Short: "Mostra as opções de frete da tabela regional para um CEP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zip, err := shipping.NormalizeZip(args[0])
		if err != nil {
			return err
		}
		region := shipping.RegionFor(shipping.Prefix(zip))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "CEP %s (%s)\n", zip, region.Name)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SERVIÇO\tVALOR\tPRAZO")
		for _, o := range shipping.FallbackRates(zip, nil) {
			fmt.Fprintf(tw, "%s\tR$ %s\t%d dias úteis\n", o.Name, o.Rate.StringFixed(2), o.DeliveryDays)
		}
		return tw.Flush()
	},
}
