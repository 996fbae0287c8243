// Package normalize applies the fixed per-record transformation pipeline
// that turns annotated Mint records into upload-ready Lunch Money fields.
// Stages run in a strict left-to-right fold over the full sequence; the
// order matters and every stage processes every record.
package normalize

import (
	"fmt"
	"strings"

	"github.com/chintans1/mint-lunchmoney/internal/dateutils"
	"github.com/chintans1/mint-lunchmoney/internal/models"
)

// MintTag is the tag optionally added to every migrated transaction.
const MintTag = "mint"

// extIDPrefix makes external ids positional and stable: re-running the
// pipeline on the same ordered input yields identical ids, which Lunch
// Money can use for deduplication.
const extIDPrefix = "MINT-"

// Stage is one step of the normalization pipeline.
type Stage func(records []*models.TransactionRecord) ([]*models.TransactionRecord, error)

// TransformDates converts the Mint MM/dd/yyyy date to yyyy-MM-dd. A
// malformed date is fatal since the upload requires valid dates.
func TransformDates(records []*models.TransactionRecord) ([]*models.TransactionRecord, error) {
	for _, record := range records {
		parsed, err := dateutils.ParseMintDate(record.Date)
		if err != nil {
			return nil, err
		}
		record.LunchMoneyDate = dateutils.ToLunchMoneyDate(parsed)
	}
	return records, nil
}

// FlipSigns sets the signed amount: debits become negative, credits keep
// the stored magnitude unchanged.
func FlipSigns(records []*models.TransactionRecord) ([]*models.TransactionRecord, error) {
	for _, record := range records {
		if record.IsDebit() {
			record.LunchMoneyAmount = "-" + record.Amount
		} else {
			record.LunchMoneyAmount = record.Amount
		}
	}
	return records, nil
}

// TrimNotes strips leading and trailing whitespace from notes. Internal
// whitespace, including the provenance lines added during reconciliation,
// is preserved.
func TrimNotes(records []*models.TransactionRecord) ([]*models.TransactionRecord, error) {
	for _, record := range records {
		record.Notes = strings.TrimSpace(record.Notes)
	}
	return records, nil
}

// AssignExternalIDs gives every record a positional zero-based external id.
func AssignExternalIDs(records []*models.TransactionRecord) ([]*models.TransactionRecord, error) {
	for i, record := range records {
		record.LunchMoneyExtID = fmt.Sprintf("%s%d", extIDPrefix, i)
	}
	return records, nil
}

// TagAllMint appends the "mint" tag to every record, keeping tags already
// set by category resolution.
func TagAllMint(records []*models.TransactionRecord) ([]*models.TransactionRecord, error) {
	for _, record := range records {
		record.LunchMoneyTags.Add(MintTag)
	}
	return records, nil
}

// Apply runs the full pipeline over the records. The mint tag stage only
// runs when the operator opted in.
func Apply(records []*models.TransactionRecord, withMintTag bool) ([]*models.TransactionRecord, error) {
	stages := []Stage{
		TransformDates,
		FlipSigns,
		TrimNotes,
		AssignExternalIDs,
	}
	if withMintTag {
		stages = append(stages, TagAllMint)
	}

	var err error
	for _, stage := range stages {
		if records, err = stage(records); err != nil {
			return nil, err
		}
	}
	return records, nil
}
