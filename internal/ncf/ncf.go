// Package ncf implements the Comprobante Fiscal numbering rules: the
// fixed-width NCF code format and the checks a sequence must pass
// before it may issue another number.
package ncf

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"colmado/internal/domain"
)

// SequenceDigits is the width of the numeric part of an NCF.
const SequenceDigits = 8

var ncfPattern = regexp.MustCompile(`^(B\d{2})(\d{8})$`)

// Format builds the fiscal number for a document type and sequence
// number, e.g. B02 + 42 -> "B0200000042".
func Format(docType domain.NCFType, number int64) string {
	return fmt.Sprintf("%s%0*d", docType, SequenceDigits, number)
}

// Parse splits a fiscal number into its type prefix and number.
func Parse(fiscalNumber string) (domain.NCFType, int64, error) {
	m := ncfPattern.FindStringSubmatch(fiscalNumber)
	if m == nil {
		return "", 0, fmt.Errorf("%w: %q", domain.ErrMalformedIdentifier, fiscalNumber)
	}
	docType := domain.NCFType(m[1])
	if !domain.ValidNCFTypes[docType] {
		return "", 0, fmt.Errorf("%w: unknown document type %q", domain.ErrMalformedIdentifier, m[1])
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", domain.ErrMalformedIdentifier, fiscalNumber)
	}
	return docType, n, nil
}

// IsValid reports whether s is a well-formed NCF of a known type.
func IsValid(s string) bool {
	_, _, err := Parse(s)
	return err == nil
}

// CheckIssuable verifies a sequence may issue its next number at the
// given instant. The order matters: an expired sequence reports expiry
// even when capacity remains.
func CheckIssuable(seq *domain.FiscalSequence, now time.Time) error {
	if !seq.IsActive {
		return domain.ErrNoActiveSequence
	}
	if seq.ExpiresAt != nil && seq.ExpiresAt.Before(now) {
		return domain.ErrSequenceExpired
	}
	if seq.CurrentNumber+1 > seq.MaxNumber {
		return domain.ErrSequenceExhausted
	}
	return nil
}
