package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SelmaBroker reads Selma's transaction export CSV. Unlike the PDF
// statements, one export carries the full history, so the cross-reference
// enrichers can resolve dividend share counts and fold the tax line items
// into their trades and dividends.
type SelmaBroker struct {
	config *Config
}

const selmaBrokerName = "Selma"

var selmaExpectedHeaders = []string{
	"Date",
	"Description",
	"Bookkeeping No.",
	"Fund",
	"Amount",
	"Currency",
	"Number of Shares",
}

// Description keywords in priority order; the first keyword found in the
// lowercased description decides the category. Stamp duty and withholding
// tax are intermediate categories consumed by the enrichers, never written
// to a ledger themselves.
var selmaCategoryKeywords = []struct {
	keyword  string
	category Category
}{
	{"cash_transfer", CategoryDepositsWithdrawals},
	{"trade", CategoryTrade},
	{"dividend", CategoryDividend},
	{"selma_fee", CategoryFee},
	{"stamp_duty", categoryStampDuty},
	{"withholding_tax", categoryWithholdingTax},
}

// Intermediate categories used only between extraction and enrichment.
const (
	categoryStampDuty      Category = "stamp_duty"
	categoryWithholdingTax Category = "withholding_tax"
)

var selmaIBANPattern = regexp.MustCompile(`(CH\d{2}\s?\d{4}\s?\d{4}\s?\d{4}\s?\d{4}\s?\d)`)

func NewSelmaBroker(config *Config) *SelmaBroker {
	return &SelmaBroker{config: config}
}

func (b *SelmaBroker) Name() string {
	return selmaBrokerName
}

// Detect accepts CSV files whose header row carries all expected columns.
func (b *SelmaBroker) Detect(filePath string) bool {
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
	for _, expected := range selmaExpectedHeaders {
		if !present[expected] {
			return false
		}
	}
	return true
}

func (b *SelmaBroker) Extract(filePath string) (*StatementData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
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
			log.Printf("Error: skipping Selma row '%s': %v", strings.Join(record, ","), err)
			continue
		}
		if raw != nil {
			data.Transactions = append(data.Transactions, raw)
		}
	}
	return data, nil
}

// buildTransaction normalizes one CSV row into the shared raw shape, or
// returns nil for rows whose description matches no known category.
func (b *SelmaBroker) buildTransaction(cell func(string) string, holding string) (RawTransaction, error) {
	datetime, err := parseDateTimeUTC(cell("Date"), "")
	if err != nil {
		return nil, err
	}
	amount, err := parseNumber(cell("Amount"))
	if err != nil {
		return nil, err
	}

	raw := RawTransaction{
		"datetime":         datetime,
		"transaction_date": cell("Date"),
		"total_amount":     amount,
		"currency":         cell("Currency"),
		"originalcurrency": cell("Currency"),
		"isin_code":        cell("Fund"),
		"broker":           selmaBrokerName,
		"holding":          holding,
	}
	if shares := cell("Number of Shares"); shares != "" {
		count, err := parseNumber(shares)
		if err != nil {
			return nil, err
		}
		raw["share_count"] = count
	}

	description := strings.ToLower(cell("Description"))
	for _, mapping := range selmaCategoryKeywords {
		if !strings.Contains(description, mapping.keyword) {
			continue
		}
		raw["category"] = mapping.category
		switch mapping.category {
		case CategoryDepositsWithdrawals:
			if amount < 0 {
				raw["type"] = TypeTransferOut
			} else {
				raw["type"] = TypeTransferIn
			}
		case CategoryTrade:
			if !raw.has("share_count") {
				return nil, fmt.Errorf("trade row without share count")
			}
			// Money out is a buy, money in a sell.
			if amount < 0 {
				raw["type"] = TypeBuy
			} else {
				raw["type"] = TypeSell
			}
		case CategoryFee:
			raw["fee"] = math.Abs(amount)
			raw["tax"] = 0.0
			raw["type"] = TypeCost
		}
		return raw, nil
	}
	return nil, nil
}

func (b *SelmaBroker) Process(data *StatementData, filePath string) (map[Category][]CanonicalTransaction, error) {
	if len(data.Transactions) == 0 {
		return nil, fmt.Errorf("no transactions found in '%s'", filePath)
	}

	byCategory := make(map[Category][]RawTransaction)
	for _, raw := range data.Transactions {
		category, _ := raw["category"].(Category)
		byCategory[category] = append(byCategory[category], raw)
	}

	trades := byCategory[CategoryTrade]
	dividends := byCategory[CategoryDividend]
	if len(trades) > 0 && len(byCategory[categoryStampDuty]) > 0 {
		mergeStampDuties(trades, byCategory[categoryStampDuty])
	}
	if len(dividends) > 0 && len(byCategory[categoryWithholdingTax]) > 0 {
		mergeWithholdingTaxes(dividends, byCategory[categoryWithholdingTax])
	}
	dividends = inferDividendShares(trades, dividends)
	dividends = aggregateSameDayDividends(dividends)

	ctx := FormatContext{
		Broker:  selmaBrokerName,
		Holding: b.config.HoldingFor(data.PortfolioNumber),
		Zone:    b.config.Location(),
	}

	result := make(map[Category][]CanonicalTransaction)
	for _, pair := range []struct {
		category Category
		raws     []RawTransaction
	}{
		{CategoryDepositsWithdrawals, byCategory[CategoryDepositsWithdrawals]},
		{CategoryTrade, trades},
		{CategoryDividend, dividends},
		{CategoryFee, byCategory[CategoryFee]},
	} {
		if len(pair.raws) == 0 {
			continue
		}
		result[pair.category] = formatCategory(pair.category, pair.raws, ctx)
	}
	return result, nil
}

func (b *SelmaBroker) OutputFilePrefix(category Category, filePath string) string {
	return fmt.Sprintf("%s_%s_%s", selmaBrokerName, b.extractIBAN(filePath), category)
}

// Archive is a no-op: the Selma export is cumulative, the same file keeps
// growing and gets re-imported.
func (b *SelmaBroker) Archive(filePath string, data *StatementData) (string, error) {
	return "", nil
}

func (b *SelmaBroker) extractIBAN(filePath string) string {
	if match := selmaIBANPattern.FindStringSubmatch(filepath.Base(filePath)); match != nil {
		return strings.ReplaceAll(match[1], " ", "")
	}
	return "unknown"
}
