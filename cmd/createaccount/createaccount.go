// Package createaccount contains the create-account subcommand.
package createaccount

import (
	"github.com/chintans1/mint-lunchmoney/cmd/root"
	"github.com/chintans1/mint-lunchmoney/internal/accounts"
	"github.com/chintans1/mint-lunchmoney/internal/migrateerror"

	"github.com/spf13/cobra"
)

// Cmd is the create-account command.
var Cmd = &cobra.Command{
	Use:   "create-account",
	Short: "Create Lunch Money assets from the account mapping",
	Long: `Create a Lunch Money asset for every entry of the account mapping
document. Run account-mapping first and edit the generated descriptors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := root.NewStore()
		mapping, err := st.AccountMapping()
		if err != nil {
			return err
		}
		if mapping == nil {
			return &migrateerror.MappingMissingError{Kind: "account", Command: "mint-lunchmoney account-mapping"}
		}

		client, err := root.NewClient()
		if err != nil {
			return err
		}

		return accounts.CreateRemoteAccounts(cmd.Context(), mapping, client)
	},
}
