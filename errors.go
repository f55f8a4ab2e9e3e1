package main

import (
	"fmt"
	"sort"
	"strings"
)

// MissingFieldError is returned when a raw transaction lacks fields required
// by its category formatter. The record is skipped, the batch continues.
type MissingFieldError struct {
	Category Category
	Fields   []string
}

func (e *MissingFieldError) Error() string {
	fields := append([]string(nil), e.Fields...)
	sort.Strings(fields)
	return fmt.Sprintf("%s transaction is missing required fields: %s", e.Category, strings.Join(fields, ", "))
}

// NumberFormatError is returned when a numeric string can't be parsed even
// after separator normalization.
type NumberFormatError struct {
	Value string
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("can't convert '%s' to a valid number", e.Value)
}

// DateParseError is returned when none of the known date layouts nor the
// flexible fallback parser accepts a value.
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return "no datetime value provided"
	}
	return fmt.Sprintf("unsupported date format: '%s'", e.Value)
}

// InvalidInstantError is returned when a zero instant reaches timezone
// projection. Default time-of-day assignment happens earlier, during
// extraction, never here.
type InvalidInstantError struct{}

func (e *InvalidInstantError) Error() string {
	return "invalid or missing datetime instant"
}

// InvalidFeeTransactionError is returned for fee records carrying no actual
// charge: both fee and tax are zero.
type InvalidFeeTransactionError struct {
	Fee float64
	Tax float64
}

func (e *InvalidFeeTransactionError) Error() string {
	return fmt.Sprintf("either 'fee' or 'tax' must be greater than 0, got fee=%v, tax=%v", e.Fee, e.Tax)
}

// LedgerWriteError is returned when a ledger file can't be read back for
// merging or the rewritten file can't be persisted. It is fatal for the
// affected broker/category, other ledgers are unaffected.
type LedgerWriteError struct {
	Path string
	Err  error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("can't write ledger '%s': %v", e.Path, e.Err)
}

func (e *LedgerWriteError) Unwrap() error {
	return e.Err
}
