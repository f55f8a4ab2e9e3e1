package main

import (
	"strconv"
	"time"
)

// RawTransaction is the loosely-shaped record a broker extractor produces:
// field names map to regex captures or CSV cells (strings), or to values the
// extractor already normalized (float64, time.Time). Its shape genuinely
// varies per broker and category, so it stays a map until the category
// formatter narrows it into a CanonicalTransaction.
type RawTransaction map[string]any

func (r RawTransaction) has(key string) bool {
	_, ok := r[key]
	return ok
}

// stringValue renders a raw field as string, "" when absent.
func (r RawTransaction) stringValue(key string) string {
	value, ok := r[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return formatISOUTC(v)
	default:
		return ""
	}
}

// floatValue parses a raw field as number, 0 when absent or empty.
func (r RawTransaction) floatValue(key string) (float64, error) {
	value, ok := r[key]
	if !ok || value == nil {
		return 0, nil
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		if v == "" {
			return 0, nil
		}
		return parseNumber(v)
	default:
		return 0, &NumberFormatError{Value: r.stringValue(key)}
	}
}

// timeValue parses a raw field as a UTC instant.
func (r RawTransaction) timeValue(key string) (time.Time, error) {
	value, ok := r[key]
	if !ok || value == nil {
		return time.Time{}, &DateParseError{Value: ""}
	}
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return time.Time{}, &DateParseError{Value: ""}
		}
		return t.UTC(), nil
	}
	if s, ok := value.(string); ok {
		return parseDateTimeUTC(s, "")
	}
	return time.Time{}, &DateParseError{Value: r.stringValue(key)}
}

// CanonicalTransaction is the unit of persistence: the normalized, fixed
// layout row of the output ledger. All money fields are kept as display
// strings ("," decimal separator, always positive, sign carried by Type)
// because after formatting they are only ever merged and serialized.
type CanonicalTransaction struct {
	// UTC instant, ISO-8601 with milliseconds and literal Z suffix.
	Datetime string `validate:"required"`
	// Date and Time are the display-timezone projections of Datetime.
	Date          string
	Time          string
	Price         string
	Shares        string
	Amount        string
	Tax           string
	Fee           string
	RealizedGains string
	Type          string `validate:"required,oneof=buy sell TransferIn TransferOut Dividend Interest cost"`
	Broker        string
	AssetType     string
	// Identifier is the ISIN for trades and dividends, empty for cash-like rows.
	Identifier       string `validate:"omitempty,isin"`
	WKN              string
	OriginalCurrency string `validate:"omitempty,iso4217"`
	Currency         string `validate:"omitempty,iso4217"`
	FxRate           string
	// Holding is an opaque portfolio reference resolved from the configuration.
	Holding          string
	HoldingName      string
	HoldingNickname  string
	Exchange         string
	AvgHoldingPeriod string
}

// LedgerRow is the serialization shape of a transaction: column name to cell
// value. Rows read back from historical ledger files may carry extra columns
// a previous version wrote; keeping the map form preserves them across merges.
type LedgerRow map[string]string

func (t CanonicalTransaction) toLedgerRow() LedgerRow {
	return LedgerRow{
		"datetime":         t.Datetime,
		"date":             t.Date,
		"time":             t.Time,
		"price":            t.Price,
		"shares":           t.Shares,
		"amount":           t.Amount,
		"tax":              t.Tax,
		"fee":              t.Fee,
		"realizedgains":    t.RealizedGains,
		"type":             t.Type,
		"broker":           t.Broker,
		"assettype":        t.AssetType,
		"identifier":       t.Identifier,
		"wkn":              t.WKN,
		"originalcurrency": t.OriginalCurrency,
		"currency":         t.Currency,
		"fxrate":           t.FxRate,
		"holding":          t.Holding,
		"holdingname":      t.HoldingName,
		"holdingnickname":  t.HoldingNickname,
		"exchange":         t.Exchange,
		"avgholdingperiod": t.AvgHoldingPeriod,
	}
}

// FormatContext carries the per-statement values a formatter needs besides
// the raw record itself: broker display name, resolved holding reference and
// the display timezone for the date/time columns.
type FormatContext struct {
	Broker  string
	Holding string
	Zone    *time.Location
}

// StatementData is what an extractor pulls out of one input file before
// category formatting.
type StatementData struct {
	Transactions []RawTransaction
	// PortfolioNumber is the account/portfolio identifier found in the
	// statement (or file name), used for holding lookup and output naming.
	PortfolioNumber string
}

// StatementExtractor is implemented once per supported broker.
type StatementExtractor interface {
	// Name returns the broker display name written into the ledger.
	Name() string
	// Detect reports whether the file looks like a statement of this broker.
	Detect(filePath string) bool
	// Extract pulls raw transactions out of the file.
	Extract(filePath string) (*StatementData, error)
	// Process normalizes the extracted transactions into canonical form,
	// one slice per category.
	Process(data *StatementData, filePath string) (map[Category][]CanonicalTransaction, error)
	// OutputFilePrefix builds the ledger file prefix for one category.
	OutputFilePrefix(category Category, filePath string) string
	// Archive moves a fully processed source file out of the inbox.
	// Extractors without archive bookkeeping return ("", nil).
	Archive(filePath string, data *StatementData) (string, error)
}
