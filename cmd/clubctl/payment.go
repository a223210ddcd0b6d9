// cmd/clubctl/payment.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	payDNI       uint64
	payAmount    uint64
	issueDNI     uint64
	listDNI      uint64
	statementDNI uint64
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Manage member dues",
}

var paymentRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Settle the member's oldest pending payment",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().RecordPayment(cmd.Context(), payDNI, payAmount); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Payment of %d recorded for member %d\n", payAmount, payDNI)
		return nil
	},
}

var paymentIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue the member's next monthly payment",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().IssueNextPayment(cmd.Context(), issueDNI); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Next payment issued for member %d\n", issueDNI)
		return nil
	},
}

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every payment issued to a member",
	RunE: func(cmd *cobra.Command, args []string) error {
		payments, err := clubClient().Payments(cmd.Context(), listDNI)
		if err != nil {
			return err
		}
		for _, p := range payments {
			status := "pending"
			if p.Paid {
				status = "paid"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%d\tdue %d\t%s\n", p.ID, p.Amount, p.DueAt, status)
		}
		return nil
	},
}

var paymentStatementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Show payment amounts for a member, or the latest club-wide",
	RunE: func(cmd *cobra.Command, args []string) error {
		var dni *uint64
		if cmd.Flags().Changed("dni") {
			dni = &statementDNI
		}
		st, err := clubClient().Statement(cmd.Context(), dni)
		if err != nil {
			return err
		}
		if st.DNI != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "member %d (category %s)\n", *st.DNI, *st.Category)
		}
		for _, amount := range st.Amounts {
			fmt.Fprintln(cmd.OutOrStdout(), amount)
		}
		return nil
	},
}

func init() {
	paymentRecordCmd.Flags().Uint64Var(&payDNI, "dni", 0, "member document number")
	paymentRecordCmd.Flags().Uint64Var(&payAmount, "amount", 0, "exact amount of the pending dues")
	paymentRecordCmd.MarkFlagRequired("dni")
	paymentRecordCmd.MarkFlagRequired("amount")

	paymentIssueCmd.Flags().Uint64Var(&issueDNI, "dni", 0, "member document number")
	paymentIssueCmd.MarkFlagRequired("dni")

	paymentListCmd.Flags().Uint64Var(&listDNI, "dni", 0, "member document number")
	paymentListCmd.MarkFlagRequired("dni")

	paymentStatementCmd.Flags().Uint64Var(&statementDNI, "dni", 0, "member document number (omit for club-wide)")

	paymentCmd.AddCommand(paymentRecordCmd)
	paymentCmd.AddCommand(paymentIssueCmd)
	paymentCmd.AddCommand(paymentListCmd)
	paymentCmd.AddCommand(paymentStatementCmd)
}
