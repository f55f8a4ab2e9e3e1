package main

import "testing"

const terzoDepositPage = `Terzo Vorsorgestiftung
Vorsorgekonto 3a
Portfolio Nr. 123.456.789
Zahlungseingang
Betrag CHF 6'883.00
Valuta 12.01.2024`

const terzoTradePage = `Terzo Vorsorgestiftung
Portfolio Nr. 123.456.789
Order: Kauf
41.719 Ant CSIF Equity World ex CH
Kurs: CHF 164.50
ISIN: CH0030849613
Betrag CHF 6'862.78
Valuta 18.01.2024`

func testTerzoBroker(t *testing.T, pages map[string][]string) *PDFBroker {
	t.Helper()
	return NewTerzoBroker(fakePageExtractor{pages: pages}, testSelmaConfig(t))
}

func TestTerzoDetect(t *testing.T) {
	broker := testTerzoBroker(t, map[string][]string{
		"statement.pdf": {terzoDepositPage},
		"other.pdf":     {"Some other bank"},
	})

	if !broker.Detect("statement.pdf") {
		t.Error("Expected Terzo statement to be detected")
	}
	if broker.Detect("other.pdf") {
		t.Error("Expected foreign statement to be rejected")
	}
}

func TestTerzoProcess(t *testing.T) {
	// Arrange
	broker := testTerzoBroker(t, map[string][]string{
		"statement.pdf": {terzoDepositPage, terzoTradePage},
	})
	data, err := broker.Extract("statement.pdf")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertStringEqual(t, data.PortfolioNumber, "123456789")

	// Act
	categories, err := broker.Process(data, "statement.pdf")

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	deposits := categories[CategoryDepositsWithdrawals]
	if len(deposits) != 1 {
		t.Fatalf("Expected 1 deposit, got %d", len(deposits))
	}
	assertStringEqual(t, deposits[0].Amount, "6883")
	assertStringEqual(t, deposits[0].Type, "TransferIn")
	assertStringEqual(t, deposits[0].Holding, "my-terzo-3a")
	assertStringEqual(t, deposits[0].Datetime, "2024-01-12T08:30:00.000Z")

	trades := categories[CategoryTrade]
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	tx := trades[0]
	assertStringEqual(t, tx.Type, "buy")
	assertStringEqual(t, tx.Identifier, "CH0030849613")
	assertStringEqual(t, tx.Shares, "41,719")
	assertStringEqual(t, tx.Amount, "6862,78")
	assertStringEqual(t, tx.Broker, "Terzo Vorsorgestiftung")
}
