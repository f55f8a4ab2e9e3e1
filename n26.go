package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// N26Broker reads the bank's account export CSV. The account only ever
// contributes cash movements to the ledger, so every row becomes a deposit
// or withdrawal.
type N26Broker struct {
	config *Config
}

const n26BrokerName = "N26"

var n26ExpectedHeaders = []string{
	"Booking Date",
	"Value Date",
	"Partner Name",
	"Partner Iban",
	"Type",
	"Payment Reference",
	"Account Name",
	"Amount (EUR)",
	"Original Amount",
	"Exchange Rate",
}

var n26IBANPattern = regexp.MustCompile(`(DE\d{2}\s?\d{4}\s?\d{4}\s?\d{4}\s?\d{4}\s?\d{2})`)

func NewN26Broker(config *Config) *N26Broker {
	return &N26Broker{config: config}
}

func (b *N26Broker) Name() string {
	return n26BrokerName
}

// Detect accepts CSV files whose header row carries all expected columns.
func (b *N26Broker) Detect(filePath string) bool {
	if !strings.HasSuffix(strings.ToLower(filePath), ".csv") {
		return false
	}
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()

	header, err := csv.NewReader(file).Read()
	if err != nil {
		return false
	}
	present := make(map[string]bool, len(header))
	for _, column := range header {
		present[column] = true
	}
	for _, expected := range n26ExpectedHeaders {
		if !present[expected] {
			return false
		}
	}
	return true
}

func (b *N26Broker) Extract(filePath string) (*StatementData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", filePath, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", filePath, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no transactions found in '%s'", filePath)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, column := range header {
		index[column] = i
	}

	iban := b.extractIBAN(filePath)
	holding := b.config.HoldingFor(iban)

	data := &StatementData{PortfolioNumber: iban}
	for _, record := range records[1:] {
		cell := func(column string) string {
			if i, ok := index[column]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}
		raw, err := b.buildTransaction(cell, holding)
		if err != nil {
			log.Printf("Error: skipping N26 row '%s': %v", strings.Join(record, ","), err)
			continue
		}
		data.Transactions = append(data.Transactions, raw)
	}
	return data, nil
}

// buildTransaction normalizes one CSV row. The value date decides the booking
// day; rows without one fall back to the booking date.
func (b *N26Broker) buildTransaction(cell func(string) string, holding string) (RawTransaction, error) {
	dateValue := cell("Value Date")
	if strings.TrimSpace(dateValue) == "" {
		dateValue = cell("Booking Date")
	}
	datetime, err := parseDateTimeUTC(dateValue, "")
	if err != nil {
		return nil, err
	}
	amount, err := parseNumber(cell("Amount (EUR)"))
	if err != nil {
		return nil, err
	}

	direction := TypeTransferOut
	if amount > 0 {
		direction = TypeTransferIn
	}
	return RawTransaction{
		"category":         CategoryDepositsWithdrawals,
		"broker":           n26BrokerName,
		"datetime":         datetime,
		"transaction_date": dateValue,
		"type":             direction,
		"total_amount":     amount,
		"currency":         "EUR",
		"originalcurrency": "EUR",
		"holding":          holding,
	}, nil
}

func (b *N26Broker) Process(data *StatementData, filePath string) (map[Category][]CanonicalTransaction, error) {
	if len(data.Transactions) == 0 {
		return nil, fmt.Errorf("no transactions found in '%s'", filePath)
	}
	ctx := FormatContext{
		Broker:  n26BrokerName,
		Holding: b.config.HoldingFor(data.PortfolioNumber),
		Zone:    b.config.Location(),
	}
	deposits := formatCategory(CategoryDepositsWithdrawals, data.Transactions, ctx)
	if len(deposits) == 0 {
		return map[Category][]CanonicalTransaction{}, nil
	}
	return map[Category][]CanonicalTransaction{CategoryDepositsWithdrawals: deposits}, nil
}

func (b *N26Broker) OutputFilePrefix(category Category, filePath string) string {
	return fmt.Sprintf("%s_%s_%s", n26BrokerName, b.extractIBAN(filePath), category)
}

// Archive is a no-op: the export is cumulative, the same file keeps growing
// and gets re-imported.
func (b *N26Broker) Archive(filePath string, data *StatementData) (string, error) {
	return "", nil
}

func (b *N26Broker) extractIBAN(filePath string) string {
	if match := n26IBANPattern.FindStringSubmatch(filepath.Base(filePath)); match != nil {
		return strings.ReplaceAll(match[1], " ", "")
	}
	return "unknown"
}
