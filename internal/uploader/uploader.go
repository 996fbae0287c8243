// Package uploader pushes normalized records to Lunch Money in fixed-size
// batches, submitted sequentially. Batches are at-least-once: a failed
// batch stops the run but earlier batches are not rolled back; the stable
// external ids let Lunch Money deduplicate a re-run.
package uploader

import (
	"context"
	"fmt"

	"github.com/chintans1/mint-lunchmoney/internal/config"
	"github.com/chintans1/mint-lunchmoney/internal/lunchmoney"
	"github.com/chintans1/mint-lunchmoney/internal/models"

	"github.com/sirupsen/logrus"
)

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// DefaultBatchSize bounds the request size per Lunch Money insert call.
const DefaultBatchSize = 100

// TransactionClient is the slice of the Lunch Money API this package needs.
type TransactionClient interface {
	InsertTransactions(ctx context.Context, transactions []lunchmoney.DraftTransaction, opts lunchmoney.InsertOptions) (lunchmoney.InsertResult, error)
}

// Chunk splits records into consecutive batches of at most size records,
// preserving order.
func Chunk(records []*models.TransactionRecord, size int) [][]*models.TransactionRecord {
	if size < 1 {
		size = DefaultBatchSize
	}

	var batches [][]*models.TransactionRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// Draft converts a normalized record into the upload shape. The currency
// comes from the resolved account mapping, falling back to usd.
func Draft(record *models.TransactionRecord) lunchmoney.DraftTransaction {
	currency := record.LunchMoneyCurrency
	if currency == "" {
		currency = "usd"
	}

	return lunchmoney.DraftTransaction{
		Payee:      record.Description,
		Notes:      record.Notes,
		Date:       record.LunchMoneyDate,
		CategoryID: record.LunchMoneyCategoryID,
		Amount:     record.LunchMoneyAmount,
		AssetID:    record.LunchMoneyAccountID,
		ExternalID: record.LunchMoneyExtID,
		Tags:       record.LunchMoneyTags,
		Currency:   currency,
		Status:     "cleared",
	}
}

// Upload submits the records in order, one batch at a time, awaiting each
// batch before issuing the next. Rules are not applied (the user can apply
// them manually), recurring detection stays on, and negative amounts are
// treated as debits.
func Upload(ctx context.Context, records []*models.TransactionRecord, client TransactionClient, batchSize int) error {
	batches := Chunk(records, batchSize)

	log.WithFields(logrus.Fields{
		"transactions": len(records),
		"batches":      len(batches),
	}).Info("Pushing transactions to Lunch Money")

	for i, batch := range batches {
		drafts := make([]lunchmoney.DraftTransaction, 0, len(batch))
		for _, record := range batch {
			drafts = append(drafts, Draft(record))
		}

		log.WithFields(logrus.Fields{
			"batch": i,
			"size":  len(batch),
		}).Info("Pushing batch")

		result, err := client.InsertTransactions(ctx, drafts, lunchmoney.InsertOptions{
			ApplyRules:        false,
			CheckForRecurring: true,
			DebitAsNegative:   true,
		})
		if err != nil {
			return fmt.Errorf("batch %d failed: %w", i, err)
		}

		log.WithFields(logrus.Fields{
			"batch":    i,
			"inserted": len(result.IDs),
		}).Debug("Batch accepted")
	}
	return nil
}
