// cmd/clubctl/report.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	eligibleActivity string
	revenueMonth     int
	revenueYear      int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Query the reporting service",
}

var reportDelinquentsCmd = &cobra.Command{
	Use:   "delinquents",
	Short: "List members with unpaid dues past their due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := reportClient().DelinquentMembers(cmd.Context())
		if err != nil {
			return err
		}
		for _, dni := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), dni)
		}
		return nil
	},
}

var reportEligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "List non-delinquent members allowed to attend an activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := reportClient().EligibleForActivity(cmd.Context(), eligibleActivity)
		if err != nil {
			return err
		}
		for _, dni := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), dni)
		}
		return nil
	},
}

var reportRevenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Show the monthly take per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		rev, err := reportClient().MonthlyRevenue(cmd.Context(), revenueMonth, revenueYear)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "A: %d\nB: %d\nC: %d\n", rev.A, rev.B, rev.C)
		return nil
	},
}

func init() {
	reportEligibleCmd.Flags().StringVar(&eligibleActivity, "activity", "", "activity name")
	reportEligibleCmd.MarkFlagRequired("activity")

	reportRevenueCmd.Flags().IntVar(&revenueMonth, "month", 0, "calendar month (1-12)")
	reportRevenueCmd.Flags().IntVar(&revenueYear, "year", 0, "calendar year")
	reportRevenueCmd.MarkFlagRequired("month")
	reportRevenueCmd.MarkFlagRequired("year")

	reportCmd.AddCommand(reportDelinquentsCmd)
	reportCmd.AddCommand(reportEligibleCmd)
	reportCmd.AddCommand(reportRevenueCmd)
}
