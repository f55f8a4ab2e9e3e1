package main

import (
	"path/filepath"
	"testing"
	"time"
)

func testSelmaConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := readConfig(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Can't read test config: %v", err)
	}
	return cfg
}

const selmaFixture = "selma_CH9300762011623852957.csv"

func TestSelmaDetect(t *testing.T) {
	broker := NewSelmaBroker(testSelmaConfig(t))

	if !broker.Detect(filepath.Join("testdata", selmaFixture)) {
		t.Error("Expected Selma export to be detected")
	}
	if broker.Detect(filepath.Join("testdata", "config.yaml")) {
		t.Error("Expected non-CSV file to be rejected")
	}
}

func TestSelmaExtract(t *testing.T) {
	// Arrange
	broker := NewSelmaBroker(testSelmaConfig(t))

	// Act
	data, err := broker.Extract(filepath.Join("testdata", selmaFixture))

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertStringEqual(t, data.PortfolioNumber, "CH9300762011623852957")
	if len(data.Transactions) != 7 {
		t.Fatalf("Expected 7 raw transactions, got %d", len(data.Transactions))
	}

	first := data.Transactions[0]
	if category, _ := first["category"].(Category); category != CategoryDepositsWithdrawals {
		t.Errorf("Expected first row categorized as deposit, got '%v'", first["category"])
	}
	assertStringEqual(t, first.stringValue("type"), "TransferIn")
	assertStringEqual(t, first.stringValue("holding"), "my-selma")

	buy := data.Transactions[1]
	assertStringEqual(t, buy.stringValue("type"), "buy")
	assertStringEqual(t, buy.stringValue("isin_code"), "IE00B4L5Y983")
	if datetime, err := buy.timeValue("datetime"); err != nil || !datetime.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected buy datetime: %v (%v)", datetime, err)
	}

	sell := data.Transactions[3]
	assertStringEqual(t, sell.stringValue("type"), "sell")
}

func TestSelmaProcess(t *testing.T) {
	// Arrange
	broker := NewSelmaBroker(testSelmaConfig(t))
	path := filepath.Join("testdata", selmaFixture)
	data, err := broker.Extract(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Act
	categories, err := broker.Process(data, path)

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	trades := categories[CategoryTrade]
	if len(trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(trades))
	}
	buy := trades[0]
	assertStringEqual(t, buy.Type, "buy")
	assertStringEqual(t, buy.Amount, "1000")
	assertStringEqual(t, buy.Shares, "10")
	assertStringEqual(t, buy.Price, "100")
	// Stamp duty on the same day and instrument folded into the tax.
	assertStringEqual(t, buy.Tax, "7,5")
	assertStringEqual(t, buy.Datetime, "2024-02-01T06:30:00.000Z")
	sell := trades[1]
	assertStringEqual(t, sell.Type, "sell")
	assertStringEqual(t, sell.Tax, "0")

	dividends := categories[CategoryDividend]
	if len(dividends) != 1 {
		t.Fatalf("Expected 1 dividend, got %d", len(dividends))
	}
	dividend := dividends[0]
	// Share count inferred from the net position of earlier trades.
	assertStringEqual(t, dividend.Shares, "6")
	assertStringEqual(t, dividend.Price, "2")
	assertStringEqual(t, dividend.Amount, "12")
	// Withholding tax two days later matched within the window.
	assertStringEqual(t, dividend.Tax, "4")
	assertStringEqual(t, dividend.Datetime, "2024-06-01T09:00:00.000Z")

	fees := categories[CategoryFee]
	if len(fees) != 1 {
		t.Fatalf("Expected 1 fee, got %d", len(fees))
	}
	assertStringEqual(t, fees[0].Fee, "5")
	assertStringEqual(t, fees[0].Type, "cost")

	deposits := categories[CategoryDepositsWithdrawals]
	if len(deposits) != 1 {
		t.Fatalf("Expected 1 deposit, got %d", len(deposits))
	}
	assertStringEqual(t, deposits[0].Amount, "5000")
	assertStringEqual(t, deposits[0].AssetType, "Cash")
}

func TestSelmaOutputFilePrefix(t *testing.T) {
	broker := NewSelmaBroker(testSelmaConfig(t))
	prefix := broker.OutputFilePrefix(CategoryTrade, filepath.Join("testdata", selmaFixture))
	assertStringEqual(t, prefix, "Selma_CH9300762011623852957_trade")
}
