// Package categorymapping contains the category-mapping subcommand.
package categorymapping

import (
	"github.com/chintans1/mint-lunchmoney/cmd/root"
	"github.com/chintans1/mint-lunchmoney/internal/categories"

	"github.com/spf13/cobra"
)

// Cmd is the category-mapping command.
var Cmd = &cobra.Command{
	Use:   "category-mapping",
	Short: "Generate the Mint category to Lunch Money category mapping",
	Long: `Generate the category mapping document by fuzzy-matching Mint categories
against the existing Lunch Money categories. Refuses to overwrite an
existing document; delete it first to regenerate. Review and edit the
suggestions before running the migration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := root.LoadRecords()
		if err != nil {
			return err
		}

		client, err := root.NewClient()
		if err != nil {
			return err
		}

		mapping, err := categories.GenerateMapping(cmd.Context(), records, client, root.NewStore(), nil)
		if err != nil {
			return err
		}

		root.Log.WithField("categories", len(mapping.Categories)).
			Info("Category mapping written, review the suggestions before running the migration")
		return nil
	},
}
