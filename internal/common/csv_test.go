package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chintans1/mint-lunchmoney/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mintExport = `Date,Description,Original Description,Amount,Transaction Type,Category,Account Name,Labels,Notes
10/02/2021,Audible.com,Audible,16.11,debit,Books,Amazon,,
10/03/2021,Paycheck,ACME CORP,3.00,credit,Income,Chase,,already noted
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadTransactionsCSV(t *testing.T) {
	records, err := ReadTransactionsCSV(writeTempCSV(t, mintExport))
	require.NoError(t, err)
	require.Len(t, records, 2)

	// headers with whitespace map onto the whitespace-free struct tags
	first := records[0]
	assert.Equal(t, "Amazon", first.AccountName)
	assert.Equal(t, "16.11", first.Amount)
	assert.Equal(t, "Books", first.Category)
	assert.Equal(t, "Audible", first.OriginalDescription)
	assert.Equal(t, "debit", first.TransactionType)

	second := records[1]
	assert.Equal(t, "credit", second.TransactionType)
	assert.Equal(t, "already noted", second.Notes)
}

func TestReadTransactionsCSVMissingFile(t *testing.T) {
	_, err := ReadTransactionsCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteTransactionsCSVRoundTrip(t *testing.T) {
	records, err := ReadTransactionsCSV(writeTempCSV(t, mintExport))
	require.NoError(t, err)

	records[0].LunchMoneyAccountName = "Amazon"
	records[0].LunchMoneyAmount = "-16.11"
	records[0].LunchMoneyDate = "2021-10-02"
	records[0].LunchMoneyExtID = "MINT-0"
	records[0].LunchMoneyTags = models.Tags{"mint", "books"}

	outPath := filepath.Join(t.TempDir(), "out", "data_transformed.csv")
	require.NoError(t, WriteTransactionsCSV(records, outPath))

	reread, err := ReadTransactionsCSV(outPath)
	require.NoError(t, err)
	require.Len(t, reread, 2)
	assert.Equal(t, "-16.11", reread[0].LunchMoneyAmount)
	assert.Equal(t, "MINT-0", reread[0].LunchMoneyExtID)
	assert.Equal(t, models.Tags{"mint", "books"}, reread[0].LunchMoneyTags)
}

func TestWriteTransactionsCSVNilRecords(t *testing.T) {
	assert.Error(t, WriteTransactionsCSV(nil, filepath.Join(t.TempDir(), "out.csv")))
}
