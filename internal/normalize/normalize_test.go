package normalize

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chintans1/mint-lunchmoney/internal/migrateerror"
	"github.com/chintans1/mint-lunchmoney/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []*models.TransactionRecord {
	return []*models.TransactionRecord{
		{Date: "10/02/2021", Amount: "16.11", TransactionType: "debit", Notes: "  padded  "},
		{Date: "10/03/2021", Amount: "3.00", TransactionType: "credit"},
		{Date: "12/31/2021", Amount: "50.00", TransactionType: "debit"},
	}
}

func TestTransformDates(t *testing.T) {
	records, err := TransformDates(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "2021-10-02", records[0].LunchMoneyDate)
	assert.Equal(t, "2021-12-31", records[2].LunchMoneyDate)
}

func TestTransformDatesMalformedDateIsFatal(t *testing.T) {
	records := sampleRecords()
	records[1].Date = "13/40/2021"

	_, err := TransformDates(records)
	require.Error(t, err)

	var parseErr *migrateerror.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestFlipSigns(t *testing.T) {
	records, err := FlipSigns(sampleRecords())
	require.NoError(t, err)

	// debit implies negative, credit keeps the stored magnitude
	assert.Equal(t, "-16.11", records[0].LunchMoneyAmount)
	assert.Equal(t, "3.00", records[1].LunchMoneyAmount)
	assert.Equal(t, "-50.00", records[2].LunchMoneyAmount)
}

func TestTrimNotesKeepsInternalWhitespace(t *testing.T) {
	records := sampleRecords()
	records[1].Notes = "  first line\n\nOriginal Mint account: Amazon  "

	records, err := TrimNotes(records)
	require.NoError(t, err)
	assert.Equal(t, "padded", records[0].Notes)
	assert.Equal(t, "first line\n\nOriginal Mint account: Amazon", records[1].Notes)
}

func TestAssignExternalIDsAreStable(t *testing.T) {
	records := sampleRecords()

	records, err := AssignExternalIDs(records)
	require.NoError(t, err)
	for i, record := range records {
		assert.Equal(t, fmt.Sprintf("MINT-%d", i), record.LunchMoneyExtID)
	}

	// re-running on the same ordered input yields identical ids
	again, err := AssignExternalIDs(records)
	require.NoError(t, err)
	for i, record := range again {
		assert.Equal(t, records[i].LunchMoneyExtID, record.LunchMoneyExtID)
	}
}

func TestTagAllMintIsAdditive(t *testing.T) {
	records := sampleRecords()
	records[0].LunchMoneyTags = models.Tags{"books"}

	records, err := TagAllMint(records)
	require.NoError(t, err)
	assert.Equal(t, models.Tags{"books", "mint"}, records[0].LunchMoneyTags)
	assert.Equal(t, models.Tags{"mint"}, records[1].LunchMoneyTags)
}

func TestApplyFullPipeline(t *testing.T) {
	records, err := Apply(sampleRecords(), true)
	require.NoError(t, err)

	for i, record := range records {
		if record.IsDebit() {
			assert.Equal(t, "-"+record.Amount, record.LunchMoneyAmount)
		} else {
			assert.Equal(t, record.Amount, record.LunchMoneyAmount)
		}
		assert.Equal(t, fmt.Sprintf("MINT-%d", i), record.LunchMoneyExtID)
		assert.Contains(t, record.LunchMoneyTags, "mint")
		assert.NotEmpty(t, record.LunchMoneyDate)
	}
}

func TestApplyWithoutMintTag(t *testing.T) {
	records, err := Apply(sampleRecords(), false)
	require.NoError(t, err)
	for _, record := range records {
		assert.NotContains(t, record.LunchMoneyTags, "mint")
	}
}
