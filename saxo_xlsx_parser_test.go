package main

import (
	"path/filepath"
	"testing"

	"github.com/tealeg/xlsx"
)

func writeSaxoFixture(t *testing.T, dir string) string {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Trades")
	if err != nil {
		t.Fatalf("Can't add sheet: %v", err)
	}

	// Preamble rows before the real header, like the export has.
	preamble := sheet.AddRow()
	preamble.AddCell().Value = "Saxo Bank trades export"
	sheet.AddRow()

	header := sheet.AddRow()
	for _, column := range saxoXlsxHeaders {
		header.AddCell().Value = column
	}

	row := sheet.AddRow()
	for _, value := range []string{
		"1042736834",
		"15-Mar-202414:22:05",
		"190271",
		"IE00B4L5Y983",
		"Bought",
		"10",
		"100.50",
		"-1005.00",
		"CHF",
		"1.000000",
	} {
		row.AddCell().Value = value
	}

	path := filepath.Join(dir, "trades.xlsx")
	if err := file.Save(path); err != nil {
		t.Fatalf("Can't save fixture: %v", err)
	}
	return path
}

func TestSaxoXlsxDetect(t *testing.T) {
	path := writeSaxoFixture(t, t.TempDir())
	broker := NewSaxoXlsxBroker(testSelmaConfig(t))

	if !broker.Detect(path) {
		t.Error("Expected Saxo export to be detected")
	}
	if broker.Detect(filepath.Join("testdata", selmaFixture)) {
		t.Error("Expected CSV file to be rejected")
	}
}

func TestSaxoXlsxExtractAndProcess(t *testing.T) {
	// Arrange
	path := writeSaxoFixture(t, t.TempDir())
	broker := NewSaxoXlsxBroker(testSelmaConfig(t))

	// Act
	data, err := broker.Extract(path)

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertStringEqual(t, data.PortfolioNumber, "190271")
	if len(data.Transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(data.Transactions))
	}

	categories, err := broker.Process(data, path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	trades := categories[CategoryTrade]
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	tx := trades[0]
	assertStringEqual(t, tx.Type, "buy")
	assertStringEqual(t, tx.Identifier, "IE00B4L5Y983")
	assertStringEqual(t, tx.Amount, "1005")
	assertStringEqual(t, tx.Shares, "10")
	assertStringEqual(t, tx.Price, "100,5")
	// Execution timestamp from the export, no canonical time of day needed.
	assertStringEqual(t, tx.Datetime, "2024-03-15T14:22:05.000Z")
}
