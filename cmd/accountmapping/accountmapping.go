// Package accountmapping contains the account-mapping subcommand.
package accountmapping

import (
	"github.com/chintans1/mint-lunchmoney/cmd/root"
	"github.com/chintans1/mint-lunchmoney/internal/accounts"

	"github.com/spf13/cobra"
)

// Cmd is the account-mapping command.
var Cmd = &cobra.Command{
	Use:   "account-mapping",
	Short: "Generate the Mint account to Lunch Money asset mapping",
	Long: `Generate the account mapping document from the Mint export. Accounts not
yet mapped get a default descriptor (type cash, USD) and a balance derived
from the full transaction history. Review and edit the generated file
before running the migration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := root.LoadRecords()
		if err != nil {
			return err
		}

		mapping, err := accounts.GenerateMapping(records, root.NewStore())
		if err != nil {
			return err
		}

		root.Log.WithField("accounts", mapping.Len()).
			Info("Account mapping written, review it before running create-account or the migration")
		return nil
	},
}
