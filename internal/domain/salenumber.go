package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
)

// Sale numbers have the form SALE-YYYYMMDD-NNNN, unique per outlet per
// calendar day. The 4-digit counter starts at 0001 on the first sale of each
// day and increments by one per sale.
const saleNumberPrefix = "SALE"

// LastSale is the most recent sale of an outlet, as read by the repository.
type LastSale struct {
	SaleNumber string
	CreatedAt  time.Time
}

// NextSaleNumber derives the sale number that follows last at the instant now.
// A last sale from a previous day restarts the counter at 1.
//
// A last sale number that does not parse is NOT silently reset to 1 — a reset
// on the same day would mint a duplicate number. It fails with
// FATAL_SALE_NUMBER_CORRUPT so operators investigate the ledger instead.
//
// Uniqueness under concurrent checkouts is not guaranteed here: callers must
// generate the number inside the transaction that inserts the sale, rely on
// the unique index on (outlet_id, sale_number), and retry with the next
// counter on collision.
func NextSaleNumber(last *LastSale, now time.Time) (string, error) {
	dateStr := now.Format("20060102")

	counter := 1
	if last != nil && last.CreatedAt.Format("20060102") == dateStr {
		parsed, err := parseCounter(last.SaleNumber)
		if err != nil {
			return "", err
		}
		counter = parsed + 1
	}
	return FormatSaleNumber(dateStr, counter), nil
}

// FormatSaleNumber renders SALE-{date}-{counter zero-padded to 4 digits}.
func FormatSaleNumber(dateStr string, counter int) string {
	return fmt.Sprintf("%s-%s-%04d", saleNumberPrefix, dateStr, counter)
}

// ParseSaleNumberCounter extracts the trailing counter of a well-formed sale
// number. Exposed for the retry loop, which bumps the counter on a unique
// constraint collision.
func ParseSaleNumberCounter(saleNumber string) (int, error) {
	return parseCounter(saleNumber)
}

func parseCounter(saleNumber string) (int, error) {
	parts := strings.Split(saleNumber, "-")
	if len(parts) != 3 || parts[0] != saleNumberPrefix {
		return 0, apierror.Fatal(apierror.CodeSaleNumberCorrupt,
			"stored sale number is malformed", nil).
			WithContext("sale_number", saleNumber)
	}
	counter, err := strconv.Atoi(parts[2])
	if err != nil || counter < 1 {
		return 0, apierror.Fatal(apierror.CodeSaleNumberCorrupt,
			"stored sale number has a non-numeric counter", err).
			WithContext("sale_number", saleNumber)
	}
	return counter, nil
}
