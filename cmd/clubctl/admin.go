// cmd/clubctl/admin.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	grantPrincipal  string
	revokePrincipal string
	newOwner        string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the club's allow-list (owner only)",
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Allow a principal to operate on the club",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().GrantPrincipal(cmd.Context(), grantPrincipal); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Principal %s granted\n", grantPrincipal)
		return nil
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Remove a principal from the allow-list",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().RevokePrincipal(cmd.Context(), revokePrincipal); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Principal %s revoked\n", revokePrincipal)
		return nil
	},
}

var adminSetOwnerCmd = &cobra.Command{
	Use:   "set-owner",
	Short: "Transfer club ownership to another principal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clubClient().SetOwner(cmd.Context(), newOwner); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ownership transferred to %s\n", newOwner)
		return nil
	},
}

var adminTogglePolicyCmd = &cobra.Command{
	Use:   "toggle-policy",
	Short: "Flip allow-list enforcement on or off",
	RunE: func(cmd *cobra.Command, args []string) error {
		enforced, err := clubClient().TogglePolicy(cmd.Context())
		if err != nil {
			return err
		}
		state := "off"
		if enforced {
			state = "on"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Enforcement is now %s\n", state)
		return nil
	},
}

func init() {
	adminGrantCmd.Flags().StringVar(&grantPrincipal, "principal", "", "principal to grant")
	adminGrantCmd.MarkFlagRequired("principal")

	adminRevokeCmd.Flags().StringVar(&revokePrincipal, "principal", "", "principal to revoke")
	adminRevokeCmd.MarkFlagRequired("principal")

	adminSetOwnerCmd.Flags().StringVar(&newOwner, "owner", "", "principal to own the club")
	adminSetOwnerCmd.MarkFlagRequired("owner")

	adminCmd.AddCommand(adminGrantCmd)
	adminCmd.AddCommand(adminRevokeCmd)
	adminCmd.AddCommand(adminSetOwnerCmd)
	adminCmd.AddCommand(adminTogglePolicyCmd)
}
