package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Inspect the cached reference tables",
}

var refdataRatesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print the USD/BRL exchange-rate table",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := buildLoader(buildSource())
		rates, err := loader.ExchangeRates(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "YEAR\tCLOSE\tAVG\tMIN\tMAX")
		for _, r := range rates {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				r.Year, fmtDec(r.ClosePrice), fmtDec(r.Average), fmtDec(r.Min), fmtDec(r.Max))
		}
		return tw.Flush()
	},
}

var refdataContinentsCmd = &cobra.Command{
	Use:   "continents",
	Short: "Print the country→continent table",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := buildLoader(buildSource())
		continents, err := loader.Continents(cmd.Context())
		if err != nil {
			return err
		}

		countries := make([]string, 0, len(continents))
		for c := range continents {
			countries = append(countries, c)
		}
		sort.Strings(countries)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COUNTRY\tCONTINENT")
		for _, c := range countries {
			fmt.Fprintf(tw, "%s\t%s\n", c, continents[c])
		}
		return tw.Flush()
	},
}

func fmtDec(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func init() {
	refdataCmd.AddCommand(refdataRatesCmd)
	refdataCmd.AddCommand(refdataContinentsCmd)
	rootCmd.AddCommand(refdataCmd)
}
