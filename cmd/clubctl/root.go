// cmd/clubctl/root.go
package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clubledger/internal/clients"
)

var (
	clubURL   string
	reportURL string
	principal string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clubctl",
	Short: "clubctl - operate the club ledger",
	Long: `clubctl administers club memberships, dues and reports against a
running club ledger deployment.

Examples:
  clubctl member register --dni 44851840 --category B --activity soccer
  clubctl payment record --dni 44851840 --amount 3000
  clubctl report delinquents`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&clubURL, "club-url", "http://localhost:8083", "club service base URL")
	rootCmd.PersistentFlags().StringVar(&reportURL, "report-url", "http://localhost:8084", "report service base URL")
	rootCmd.PersistentFlags().StringVar(&principal, "principal", "owner", "principal to act as")

	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(paymentCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(reportCmd)
}

func clubClient() *clients.ClubClient {
	return clients.NewClubClient(clubURL, principal)
}

func reportClient() *clients.ReportClient {
	return clients.NewReportClient(reportURL)
}
