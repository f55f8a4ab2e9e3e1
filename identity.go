package main

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// The ordered field subset that defines transaction identity. Two rows equal
// across exactly these fields are the same logical transaction and collapse
// to one ledger row on merge.
var identityFields = []string{
	"datetime",
	"identifier",
	"amount",
	"type",
	"broker",
	"holding",
	"tax",
	"fee",
}

const transactionIDPrefix = "txn_"

// deriveTransactionID computes the deduplication key of a ledger row. The
// digest is used for merge identity only, not for security; the fixed-length
// hex prefix keeps ids readable in logs.
func deriveTransactionID(row LedgerRow) string {
	parts := make([]string, len(identityFields))
	for i, field := range identityFields {
		parts[i] = row[field]
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return transactionIDPrefix + hex.EncodeToString(sum[:])[:16]
}
