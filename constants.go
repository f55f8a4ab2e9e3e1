package main

// Transaction categories produced by broker extractors. Each category has its
// own formatter, required-field set and output ledger file.
type Category string

const (
	CategoryTrade               Category = "trade"
	CategoryDividend            Category = "dividend"
	CategoryInterest            Category = "interest"
	CategoryFee                 Category = "fee"
	CategoryDepositsWithdrawals Category = "deposits_withdrawals"
)

// Transaction type tags written into the "type" ledger column.
const (
	TypeBuy         = "buy"
	TypeSell        = "sell"
	TypeTransferIn  = "TransferIn"
	TypeTransferOut = "TransferOut"
	TypeDividend    = "Dividend"
	TypeInterest    = "Interest"
	TypeCost        = "cost"
)

// Placeholder written when an account/portfolio number has no holding
// configured, so missing mappings are visible in the output instead of
// failing the whole statement.
const UnknownHoldingPlaceholder = "???"

// Directory defaults used when the configuration leaves them empty.
const (
	DEFAULT_DATA_DIR    = "data"
	DEFAULT_OUTPUT_DIR  = "output"
	DEFAULT_ARCHIVE_DIR = "archive"
)

// Output formats for the localized date and time ledger columns.
const (
	LedgerDateFormat = "02.01.2006"
	LedgerTimeFormat = "15:04:05"
)
