// Package dateutils provides the date conversions used by the migration.
package dateutils

import (
	"strings"
	"time"

	"github.com/chintans1/mint-lunchmoney/internal/migrateerror"
)

// Date format constants.
const (
	// DateLayoutMint is the strict US format Mint exports use.
	DateLayoutMint = "01/02/2006"
	// DateLayoutLunchMoney is the ISO format the Lunch Money API requires.
	DateLayoutLunchMoney = "2006-01-02"
)

// ParseMintDate parses a Mint export date strictly as MM/dd/yyyy. There is
// no fallback format: a date that does not parse stops the run, since the
// upload requires valid dates.
func ParseMintDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse(DateLayoutMint, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, &migrateerror.ParseError{
			Field: "Date",
			Value: dateStr,
			Err:   err,
		}
	}
	return parsed, nil
}

// ToLunchMoneyDate formats a date as yyyy-MM-dd.
func ToLunchMoneyDate(date time.Time) string {
	return date.Format(DateLayoutLunchMoney)
}
