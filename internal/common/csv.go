// Package common provides the CSV collaborators shared by the commands:
// reading the Mint export into transaction records and writing the
// transformed records back out for review.
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/chintans1/mint-lunchmoney/internal/config"
	"github.com/chintans1/mint-lunchmoney/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var headerWhitespace = regexp.MustCompile(`\s+`)

func init() {
	// Mint headers contain spaces ("Original Description"); strip all
	// whitespace so they line up with the struct tags.
	gocsv.SetHeaderNormalizer(func(header string) string {
		return headerWhitespace.ReplaceAllString(header, "")
	})
}

// ReadTransactionsCSV reads a Mint transaction export into records,
// preserving row order.
func ReadTransactionsCSV(filePath string) ([]*models.TransactionRecord, error) {
	log.WithField("file", filePath).Info("Reading Mint CSV export")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var records []*models.TransactionRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.WithField("count", len(records)).Info("Read transactions")
	return records, nil
}

// WriteTransactionsCSV writes the annotated records to a CSV file so the
// user can inspect exactly what will be uploaded.
func WriteTransactionsCSV(records []*models.TransactionRecord, filePath string) error {
	if records == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}

	log.WithFields(logrus.Fields{
		"file":  filePath,
		"count": len(records),
	}).Info("Writing transformed transactions to CSV file")

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("error writing CSV file: %w", err)
	}

	return nil
}
