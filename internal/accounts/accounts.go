// Package accounts reconciles Mint account names against Lunch Money
// assets: it derives the account mapping document from the transaction
// history, resolves records to their destination account, and flags
// accounts still missing remotely.
package accounts

import (
	"context"
	"strings"

	"github.com/chintans1/mint-lunchmoney/internal/config"
	"github.com/chintans1/mint-lunchmoney/internal/lunchmoney"
	"github.com/chintans1/mint-lunchmoney/internal/migrateerror"
	"github.com/chintans1/mint-lunchmoney/internal/models"
	"github.com/chintans1/mint-lunchmoney/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Defaults synthesized for accounts seen for the first time. The user is
// expected to edit the generated mapping before the full run.
const (
	defaultInstitution = "InstitutionName"
	defaultCurrency    = "USD"
)

// passThroughAccounts map to Lunch Money's built-in cash account rather
// than a dedicated asset.
var passThroughAccounts = map[string]bool{
	"Uncategorized": true,
}

// AssetClient is the slice of the Lunch Money API this package needs.
type AssetClient interface {
	Assets(ctx context.Context) ([]lunchmoney.Asset, error)
	CreateAsset(ctx context.Context, req lunchmoney.AssetRequest) error
}

// GenerateMapping derives the account mapping document from the records
// and persists it. Accounts absent from a pre-existing document get a
// default descriptor (cash, zero balance, USD); every known account's
// balance is then folded from the full transaction history. Entries for
// accounts not present in this run's data are preserved untouched. The
// operation is self-healing: it never fails on missing data.
func GenerateMapping(records []*models.TransactionRecord, st store.Store) (*models.AccountMapping, error) {
	mapping, err := st.AccountMapping()
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		mapping = &models.AccountMapping{}
	}

	synthesized := 0
	for _, record := range records {
		if mapping.Has(record.AccountName) {
			continue
		}
		mapping.Set(record.AccountName, models.AccountDescriptor{
			Name:            record.AccountName,
			Type:            models.AccountTypeCash,
			Balance:         decimal.Zero,
			InstitutionName: defaultInstitution,
			Currency:        defaultCurrency,
		})
		synthesized++
	}

	for _, record := range records {
		account, ok := mapping.Lookup(record.AccountName)
		if !ok {
			continue
		}
		amount, err := record.ParsedAmount()
		if err != nil {
			log.WithError(err).WithField("account", record.AccountName).
				Warn("Skipping record with unparseable amount in balance fold")
			continue
		}
		if record.IsDebit() {
			account.Balance = account.Balance.Sub(amount)
		} else {
			account.Balance = account.Balance.Add(amount)
		}
		mapping.Set(record.AccountName, account)
	}

	log.WithFields(logrus.Fields{
		"accounts":    mapping.Len(),
		"synthesized": synthesized,
	}).Info("Generated account mapping")

	if err := st.SaveAccountMapping(mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Resolve annotates every record with its destination account name and
// currency from the mapping. A Mint account missing from the mapping is
// fatal: the user must regenerate the mapping before continuing.
func Resolve(records []*models.TransactionRecord, mapping *models.AccountMapping) error {
	for _, record := range records {
		account, ok := mapping.Lookup(record.AccountName)
		if !ok {
			return &migrateerror.MappingNotFoundError{Kind: "account", Name: record.AccountName}
		}

		if passThroughAccounts[record.AccountName] {
			log.WithFields(logrus.Fields{
				"description": record.Description,
				"date":        record.Date,
			}).Info("Transaction belongs to an uncategorized/cash account")
		}

		record.AppendNote("Original Mint account: " + record.AccountName)
		record.LunchMoneyAccountName = account.Name
		record.LunchMoneyCurrency = strings.ToLower(account.Currency)
	}
	return nil
}

// ReconcileWithRemote returns the destination account names used by the
// records that do not exist as Lunch Money assets yet. Names are compared
// NFKC-normalized since visually identical account names can differ in
// encoding. Lunch Money always has an implicit "Cash" account.
func ReconcileWithRemote(ctx context.Context, records []*models.TransactionRecord, client AssetClient) ([]string, error) {
	assets, err := client.Assets(ctx)
	if err != nil {
		return nil, err
	}

	existing := map[string]bool{
		norm.NFKC.String("Cash"): true,
	}
	for _, asset := range assets {
		existing[norm.NFKC.String(asset.Label())] = true
	}

	var missing []string
	seen := map[string]bool{}
	for _, record := range records {
		name := norm.NFKC.String(record.LunchMoneyAccountName)
		if seen[name] {
			continue
		}
		seen[name] = true
		if !existing[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// AddRemoteIDs resolves each record's asset id from the remote catalog.
// Records mapped to the implicit cash account keep a zero id.
func AddRemoteIDs(ctx context.Context, records []*models.TransactionRecord, client AssetClient) error {
	assets, err := client.Assets(ctx)
	if err != nil {
		return err
	}

	ids := make(map[string]int64, len(assets))
	for _, asset := range assets {
		ids[norm.NFKC.String(asset.Label())] = asset.ID
	}

	for _, record := range records {
		record.LunchMoneyAccountID = ids[norm.NFKC.String(record.LunchMoneyAccountName)]
	}
	return nil
}

// CreateRemoteAccounts creates a Lunch Money asset for every entry of the
// account mapping. Currency is lower-cased at the API boundary.
func CreateRemoteAccounts(ctx context.Context, mapping *models.AccountMapping, client AssetClient) error {
	for _, entry := range mapping.Accounts {
		account := entry.Account
		log.WithFields(logrus.Fields{
			"mintAccount": entry.SourceName,
			"asset":       account.Name,
			"currency":    strings.ToLower(account.Currency),
		}).Info("Creating Lunch Money asset")

		err := client.CreateAsset(ctx, lunchmoney.AssetRequest{
			Name:            account.Name,
			TypeName:        string(account.Type),
			Balance:         account.Balance.String(),
			Currency:        strings.ToLower(account.Currency),
			InstitutionName: account.InstitutionName,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
