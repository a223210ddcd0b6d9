// cmd/clubctl/price.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	priceCategory   string
	priceAmount     uint64
	discountPercent uint64
	qualifyMonths   uint64
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Manage category prices and discount settings",
}

var priceGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current dues for a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := clubClient().Price(cmd.Context(), priceCategory)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", priceCategory, amount)
		return nil
	},
}

var priceSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Overwrite the dues for a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().SetPrice(cmd.Context(), priceCategory, priceAmount); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Price for category %s set to %d\n", priceCategory, priceAmount)
		return nil
	},
}

var priceDiscountCmd = &cobra.Command{
	Use:   "discount",
	Short: "Set the on-time renewal discount percentage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().SetDiscountPercent(cmd.Context(), discountPercent); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Discount set to %d%%\n", discountPercent)
		return nil
	},
}

var priceMonthsCmd = &cobra.Command{
	Use:   "qualifying-months",
	Short: "Set how many consecutive on-time payments earn a discount",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().SetQualifyingMonths(cmd.Context(), qualifyMonths); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Qualifying months set to %d\n", qualifyMonths)
		return nil
	},
}

func init() {
	priceGetCmd.Flags().StringVar(&priceCategory, "category", "", "membership category (A, B or C)")
	priceGetCmd.MarkFlagRequired("category")

	priceSetCmd.Flags().StringVar(&priceCategory, "category", "", "membership category (A, B or C)")
	priceSetCmd.Flags().Uint64Var(&priceAmount, "amount", 0, "new dues amount")
	priceSetCmd.MarkFlagRequired("category")
	priceSetCmd.MarkFlagRequired("amount")

	priceDiscountCmd.Flags().Uint64Var(&discountPercent, "percent", 30, "discount percentage")
	priceMonthsCmd.Flags().Uint64Var(&qualifyMonths, "months", 3, "qualifying months")

	priceCmd.AddCommand(priceGetCmd)
	priceCmd.AddCommand(priceSetCmd)
	priceCmd.AddCommand(priceDiscountCmd)
	priceCmd.AddCommand(priceMonthsCmd)
}
