// cmd/clubctl/member.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerDNI      uint64
	registerCategory string
	registerActivity string
	showDNI          uint64
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage club members",
}

var memberRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new member with their first pending dues",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().RegisterMember(cmd.Context(), registerDNI, registerCategory, registerActivity); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Member %d registered (category %s)\n", registerDNI, registerCategory)
		return nil
	},
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered member ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := clubClient().MemberIDs(cmd.Context())
		if err != nil {
			return err
		}
		for _, dni := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), dni)
		}
		return nil
	},
}

var memberShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a member's profile and payment queues",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := clubClient().GetMember(cmd.Context(), showDNI)
		if err != nil {
			return err
		}
		activity := string(m.Activity)
		if activity == "" {
			activity = "none"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dni: %d\ncategory: %s\nactivity: %s\npending: %v\ncompleted: %v\n",
			m.DNI, m.Category, activity, m.PendingPaymentIDs, m.CompletedPaymentIDs)
		return nil
	},
}

func init() {
	memberRegisterCmd.Flags().Uint64Var(&registerDNI, "dni", 0, "member document number")
	memberRegisterCmd.Flags().StringVar(&registerCategory, "category", "", "membership category (A, B or C)")
	memberRegisterCmd.Flags().StringVar(&registerActivity, "activity", "", "activity for category B members")
	memberRegisterCmd.MarkFlagRequired("dni")
	memberRegisterCmd.MarkFlagRequired("category")

	memberShowCmd.Flags().Uint64Var(&showDNI, "dni", 0, "member document number")
	memberShowCmd.MarkFlagRequired("dni")

	memberCmd.AddCommand(memberRegisterCmd)
	memberCmd.AddCommand(memberListCmd)
	memberCmd.AddCommand(memberShowCmd)
}
