// Package root contains the root command, which runs the full migration
// pipeline: resolve accounts and categories from the mapping documents,
// create missing remote categories, normalize, and upload in batches.
package root

import (
	"fmt"
	"os"

	"github.com/chintans1/mint-lunchmoney/internal/accounts"
	"github.com/chintans1/mint-lunchmoney/internal/categories"
	"github.com/chintans1/mint-lunchmoney/internal/common"
	"github.com/chintans1/mint-lunchmoney/internal/config"
	"github.com/chintans1/mint-lunchmoney/internal/lunchmoney"
	"github.com/chintans1/mint-lunchmoney/internal/migrateerror"
	"github.com/chintans1/mint-lunchmoney/internal/models"
	"github.com/chintans1/mint-lunchmoney/internal/normalize"
	"github.com/chintans1/mint-lunchmoney/internal/prompt"
	"github.com/chintans1/mint-lunchmoney/internal/store"
	"github.com/chintans1/mint-lunchmoney/internal/uploader"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by the root command and the
// mapping subcommands. Empty values fall back to the configuration.
type CommonFlags struct {
	CSVFile         string
	AccountMapping  string
	CategoryMapping string
	BatchSize       int
}

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg is the loaded application configuration, available after
	// PersistentPreRunE.
	Cfg *config.Config

	// SharedFlags are the common flags accessible to all commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "mint-lunchmoney",
		Short: "Migrate a Mint transaction export into Lunch Money.",
		Long: `mint-lunchmoney reads a Mint transaction CSV export, reconciles its
accounts and categories against Lunch Money using editable mapping
documents, normalizes every transaction into the Lunch Money shape and
uploads in batches.

Generate and review the mapping documents first:
  mint-lunchmoney account-mapping
  mint-lunchmoney category-mapping`,
		SilenceUsage: true,
		RunE:         runMigration,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			common.SetLogger(Log)
			store.SetLogger(Log)
			lunchmoney.SetLogger(Log)
			accounts.SetLogger(Log)
			categories.SetLogger(Log)
			uploader.SetLogger(Log)

			var err error
			Cfg, err = config.InitializeConfig()
			return err
		},
	}
)

// Init initializes the root command and all flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.CSVFile, "csv", "i", "", "Mint CSV export to migrate")
	Cmd.PersistentFlags().StringVar(&SharedFlags.AccountMapping, "account-mapping", "", "Path of the account mapping document")
	Cmd.PersistentFlags().StringVar(&SharedFlags.CategoryMapping, "category-mapping", "", "Path of the category mapping document")
	Cmd.Flags().IntVar(&SharedFlags.BatchSize, "batch-size", 0, "Transactions per upload batch")
}

// CSVPath returns the input CSV path, flag over configuration.
func CSVPath() string {
	if SharedFlags.CSVFile != "" {
		return SharedFlags.CSVFile
	}
	return Cfg.CSV.Input
}

// NewStore builds the mapping document store from flags and configuration.
func NewStore() store.Store {
	accountPath := SharedFlags.AccountMapping
	if accountPath == "" {
		accountPath = Cfg.Mapping.AccountPath
	}
	categoryPath := SharedFlags.CategoryMapping
	if categoryPath == "" {
		categoryPath = Cfg.Mapping.CategoryPath
	}
	return store.NewFileStore(accountPath, categoryPath)
}

// NewClient builds the Lunch Money client, failing when no API key is set.
func NewClient() (*lunchmoney.Client, error) {
	if Cfg.LunchMoney.APIKey == "" {
		return nil, fmt.Errorf("Lunch Money API key not set, export LUNCH_MONEY_API_KEY")
	}
	return lunchmoney.NewClient(Cfg.LunchMoney.BaseURL, Cfg.LunchMoney.APIKey), nil
}

// LoadRecords reads the Mint export configured for this run.
func LoadRecords() ([]*models.TransactionRecord, error) {
	return common.ReadTransactionsCSV(CSVPath())
}

func batchSize() int {
	if SharedFlags.BatchSize > 0 {
		return SharedFlags.BatchSize
	}
	return Cfg.LunchMoney.BatchSize
}

func runMigration(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st := NewStore()
	if _, ok := st.HasAccountMapping(); !ok {
		return &migrateerror.MappingMissingError{Kind: "account", Command: "mint-lunchmoney account-mapping"}
	}
	if _, ok := st.HasCategoryMapping(); !ok {
		return &migrateerror.MappingMissingError{Kind: "category", Command: "mint-lunchmoney category-mapping"}
	}

	records, err := LoadRecords()
	if err != nil {
		return err
	}

	client, err := NewClient()
	if err != nil {
		return err
	}
	prompter := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())

	accountMapping, err := st.AccountMapping()
	if err != nil {
		return err
	}
	if err := accounts.Resolve(records, accountMapping); err != nil {
		return err
	}

	categoryMapping, err := st.CategoryMapping()
	if err != nil {
		return err
	}
	catalog, err := client.Categories(ctx)
	if err != nil {
		return err
	}
	if err := categories.Resolve(records, categoryMapping, categories.LeafNames(catalog)); err != nil {
		return err
	}

	createCategories, err := prompter.Confirm("Do you want to create categories")
	if err != nil {
		return err
	}
	if !createCategories {
		return fmt.Errorf("no categories are being created, aborting")
	}
	if err := categories.CreateRemote(ctx, records, categoryMapping, client); err != nil {
		return err
	}

	missing, err := accounts.ReconcileWithRemote(ctx, records, client)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &migrateerror.MissingAccountsError{Names: missing}
	}

	addMintTag, err := prompter.Confirm(`Do you want to add a "mint" tag to all transactions`)
	if err != nil {
		return err
	}
	records, err = normalize.Apply(records, addMintTag)
	if err != nil {
		return err
	}

	if err := accounts.AddRemoteIDs(ctx, records, client); err != nil {
		return err
	}
	if err := categories.AddRemoteIDs(ctx, records, client); err != nil {
		return err
	}

	if err := common.WriteTransactionsCSV(records, Cfg.CSV.TransformedOutput); err != nil {
		return err
	}
	Log.WithField("file", Cfg.CSV.TransformedOutput).Info("Wrote transformed transactions for review")

	proceed, err := prompter.Confirm(fmt.Sprintf("Push %d transactions to Lunch Money", len(records)))
	if err != nil {
		return err
	}
	if !proceed {
		Log.Info("Upload cancelled")
		return nil
	}

	if err := uploader.Upload(ctx, records, client, batchSize()); err != nil {
		return err
	}
	Log.Info("Migration complete")
	return nil
}

// Execute runs the root command and reports whether it succeeded. Process
// exit codes are decided here and nowhere else.
func Execute() {
	if err := Cmd.Execute(); err != nil {
		Log.Error(err)
		os.Exit(1)
	}
}
