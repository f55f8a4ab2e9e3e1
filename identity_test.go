package main

import (
	"strings"
	"testing"
)

func testLedgerRow() LedgerRow {
	return LedgerRow{
		"datetime":   "2024-03-15T06:30:00.000Z",
		"identifier": "IE00B4L5Y983",
		"amount":     "1005",
		"type":       "buy",
		"broker":     "Kasparund AG",
		"holding":    "my-3a",
		"tax":        "0",
		"fee":        "0",
		"price":      "100,5",
	}
}

func TestDeriveTransactionID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		first := deriveTransactionID(testLedgerRow())
		second := deriveTransactionID(testLedgerRow())
		assertStringEqual(t, first, second)
	})

	t.Run("shape", func(t *testing.T) {
		id := deriveTransactionID(testLedgerRow())
		if !strings.HasPrefix(id, "txn_") {
			t.Errorf("Expected 'txn_' prefix, got '%s'", id)
		}
		if len(id) != len("txn_")+16 {
			t.Errorf("Expected 16 hex chars after prefix, got '%s'", id)
		}
	})

	t.Run("identity-field-change-changes-id", func(t *testing.T) {
		base := deriveTransactionID(testLedgerRow())
		changed := testLedgerRow()
		changed["amount"] = "1006"
		if deriveTransactionID(changed) == base {
			t.Error("Expected different id after amount change")
		}
	})

	t.Run("non-identity-field-change-keeps-id", func(t *testing.T) {
		base := deriveTransactionID(testLedgerRow())
		changed := testLedgerRow()
		changed["price"] = "999"
		changed["holdingname"] = "renamed"
		assertStringEqual(t, deriveTransactionID(changed), base)
	})

	t.Run("missing-fields-hash-as-empty", func(t *testing.T) {
		sparse := LedgerRow{"datetime": "2024-03-15T06:30:00.000Z"}
		id := deriveTransactionID(sparse)
		if !strings.HasPrefix(id, "txn_") {
			t.Errorf("Expected id even for sparse row, got '%s'", id)
		}
	})
}
