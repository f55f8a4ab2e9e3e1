package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/tealeg/xlsx"
)

const giveUpFindHeaderInSaxoExcelAfterRows = 20

const saxoBrokerName = "Saxo Bank CH"

// Saxo's trade export spreadsheet. The header row sits below a preamble of
// account metadata rows, so it is searched for within a window rather than
// assumed at the top.
var saxoXlsxHeaders = []string{
	"Trade ID",
	"Trade Time",
	"Account ID",
	"Instrument ISIN",
	"Buy/Sell",
	"Quantity",
	"Price",
	"Traded Value",
	"Currency",
	"Conversion Rate",
}

// SaxoXlsxBroker parses the trade export; Saxo delivers dividends and cash
// movements as separate PDF advices, the spreadsheet only holds trades.
type SaxoXlsxBroker struct {
	config *Config
}

func NewSaxoXlsxBroker(config *Config) *SaxoXlsxBroker {
	return &SaxoXlsxBroker{config: config}
}

func (b *SaxoXlsxBroker) Name() string {
	return saxoBrokerName
}

func (b *SaxoXlsxBroker) Detect(filePath string) bool {
	if !strings.HasSuffix(strings.ToLower(filePath), ".xlsx") {
		return false
	}
	f, err := xlsx.OpenFile(filePath)
	if err != nil || len(f.Sheets) == 0 {
		return false
	}
	_, _, err = findSaxoHeaderRow(f.Sheets[0])
	return err == nil
}

// findSaxoHeaderRow scans the top of the sheet for the row holding all
// expected column names and returns its index plus a name-to-column map.
func findSaxoHeaderRow(sheet *xlsx.Sheet) (int, map[string]int, error) {
	for i, row := range sheet.Rows {
		if i > giveUpFindHeaderInSaxoExcelAfterRows {
			break
		}
		columns := make(map[string]int, len(row.Cells))
		for j, cell := range row.Cells {
			columns[strings.TrimSpace(cell.Value)] = j
		}
		found := true
		for _, header := range saxoXlsxHeaders {
			if _, ok := columns[header]; !ok {
				found = false
				break
			}
		}
		if found {
			return i, columns, nil
		}
	}
	return 0, nil, fmt.Errorf("can't find headers %v in first %d rows", saxoXlsxHeaders, giveUpFindHeaderInSaxoExcelAfterRows)
}

func (b *SaxoXlsxBroker) Extract(filePath string) (*StatementData, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets in '%s'", filePath)
	}

	sheet := f.Sheets[0]
	headerIndex, columns, err := findSaxoHeaderRow(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	data := &StatementData{}
	for _, row := range sheet.Rows[headerIndex+1:] {
		cell := func(column string) string {
			j := columns[column]
			if j < len(row.Cells) {
				return strings.TrimSpace(row.Cells[j].Value)
			}
			return ""
		}
		if cell("Trade ID") == "" {
			continue
		}
		if data.PortfolioNumber == "" {
			data.PortfolioNumber = cleanString(cell("Account ID"), "")
		}

		raw, err := b.buildTrade(cell)
		if err != nil {
			log.Printf("Error: skipping Saxo trade '%s': %v", cell("Trade ID"), err)
			continue
		}
		data.Transactions = append(data.Transactions, raw)
	}
	return data, nil
}

func (b *SaxoXlsxBroker) buildTrade(cell func(string) string) (RawTransaction, error) {
	datetime, err := parseDateTimeUTC(cell("Trade Time"), saxoTradeTimeLayout)
	if err != nil {
		return nil, err
	}

	direction := TypeBuy
	if strings.EqualFold(cell("Buy/Sell"), "Sold") || strings.EqualFold(cell("Buy/Sell"), "Sell") {
		direction = TypeSell
	}
	currency := cleanString(cell("Currency"), "")
	if currency == "" {
		currency = "CHF"
	}

	return RawTransaction{
		"category":         CategoryTrade,
		"broker":           saxoBrokerName,
		"datetime":         datetime,
		"transaction_date": cell("Trade Time"),
		"type":             direction,
		"isin_code":        cleanString(cell("Instrument ISIN"), ""),
		"total_amount":     cell("Traded Value"),
		"share_count":      cell("Quantity"),
		"price_per_share":  cell("Price"),
		"fxrate":           cell("Conversion Rate"),
		"originalcurrency": currency,
		"currency":         currency,
		"holding":          b.config.HoldingFor(cell("Account ID")),
	}, nil
}

func (b *SaxoXlsxBroker) Process(data *StatementData, filePath string) (map[Category][]CanonicalTransaction, error) {
	if len(data.Transactions) == 0 {
		return nil, fmt.Errorf("no transactions found in '%s'", filePath)
	}
	ctx := FormatContext{
		Broker:  saxoBrokerName,
		Holding: b.config.HoldingFor(data.PortfolioNumber),
		Zone:    b.config.Location(),
	}
	trades := formatCategory(CategoryTrade, data.Transactions, ctx)
	if len(trades) == 0 {
		return map[Category][]CanonicalTransaction{}, nil
	}
	return map[Category][]CanonicalTransaction{CategoryTrade: trades}, nil
}

func (b *SaxoXlsxBroker) OutputFilePrefix(category Category, filePath string) string {
	portfolio := "unknown"
	if data, err := b.Extract(filePath); err == nil && data.PortfolioNumber != "" {
		portfolio = data.PortfolioNumber
	}
	return fmt.Sprintf("%s_%s_%s", strings.ToLower(strings.ReplaceAll(saxoBrokerName, " ", "_")), portfolio, category)
}

func (b *SaxoXlsxBroker) Archive(filePath string, data *StatementData) (string, error) {
	if len(data.Transactions) == 0 {
		return "", nil
	}
	first := data.Transactions[0]
	prefix := fmt.Sprintf("%s-%s", strings.ToLower(strings.ReplaceAll(saxoBrokerName, " ", "_")), data.PortfolioNumber)
	return moveFileWithConflictResolution(filePath, b.config.ArchiveDir, archiveName(prefix, CategoryTrade, first))
}
