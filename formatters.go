package main

import (
	"log"
	"time"
)

// categoryFormatter holds everything one category needs: the raw fields that
// must be present before any parsing starts and the pure formatting function.
type categoryFormatter struct {
	requiredFields []string
	format         func(raw RawTransaction, ctx FormatContext, utc, local time.Time) (CanonicalTransaction, error)
}

var categoryFormatters = map[Category]categoryFormatter{
	CategoryTrade: {
		requiredFields: []string{"datetime", "isin_code", "total_amount", "share_count", "type", "broker", "originalcurrency", "currency"},
		format:         formatTrade,
	},
	CategoryDividend: {
		requiredFields: []string{"datetime", "isin_code"},
		format:         formatDividend,
	},
	CategoryInterest: {
		requiredFields: []string{"datetime", "amount"},
		format:         formatInterest,
	},
	CategoryFee: {
		requiredFields: []string{"datetime", "fee", "tax"},
		format:         formatFee,
	},
	CategoryDepositsWithdrawals: {
		requiredFields: []string{"datetime", "type", "total_amount", "holding"},
		format:         formatDepositWithdrawal,
	},
}

// formatCategory normalizes one category's raw records. A failing record is
// logged with enough context to find it in the statement and skipped; the
// rest of the batch continues. Records whose source carried only a date get
// the category's canonical time of day so same-day rows across categories
// keep a stable relative order.
func formatCategory(category Category, raws []RawTransaction, ctx FormatContext) []CanonicalTransaction {
	formatter, ok := categoryFormatters[category]
	if !ok {
		log.Printf("Error: no formatter for category '%s', %d records dropped.", category, len(raws))
		return nil
	}

	formatted := make([]CanonicalTransaction, 0, len(raws))
	for _, raw := range raws {
		tx, err := formatRecord(category, formatter, raw, ctx)
		if err != nil {
			log.Printf(
				"Error: skipping %s/%s record with identifier '%s' and datetime '%s': %v",
				ctx.Broker, category, raw.stringValue("isin_code"), raw.stringValue("datetime"), err,
			)
			continue
		}
		formatted = append(formatted, tx)
	}
	return formatted
}

func formatRecord(category Category, formatter categoryFormatter, raw RawTransaction, ctx FormatContext) (CanonicalTransaction, error) {
	var missing []string
	for _, field := range formatter.requiredFields {
		if !raw.has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return CanonicalTransaction{}, &MissingFieldError{Category: category, Fields: missing}
	}

	utc, err := raw.timeValue("datetime")
	if err != nil {
		return CanonicalTransaction{}, err
	}
	if utc.Hour() == 0 && utc.Minute() == 0 && utc.Second() == 0 {
		utc = applyCategoryTime(utc, category)
	}
	local, err := projectToTimezone(utc, ctx.Zone)
	if err != nil {
		return CanonicalTransaction{}, err
	}

	tx, err := formatter.format(raw, ctx, utc, local)
	if err != nil {
		return CanonicalTransaction{}, err
	}
	if err := validate.Struct(tx); err != nil {
		return CanonicalTransaction{}, err
	}
	return tx, nil
}

// baseTransaction fills the columns every category shares.
func baseTransaction(raw RawTransaction, ctx FormatContext, utc, local time.Time) CanonicalTransaction {
	broker := raw.stringValue("broker")
	if broker == "" {
		broker = ctx.Broker
	}
	holding := raw.stringValue("holding")
	if holding == "" {
		holding = ctx.Holding
	}
	return CanonicalTransaction{
		Datetime: formatISOUTC(utc),
		Date:     local.Format(LedgerDateFormat),
		Time:     local.Format(LedgerTimeFormat),
		Broker:   broker,
		FxRate:   raw.stringValue("fxrate"),
		Holding:  holding,
	}
}

func formatTrade(raw RawTransaction, ctx FormatContext, utc, local time.Time) (CanonicalTransaction, error) {
	amount, err := raw.floatValue("total_amount")
	if err != nil {
		return CanonicalTransaction{}, err
	}
	shares, err := raw.floatValue("share_count")
	if err != nil {
		return CanonicalTransaction{}, err
	}

	tx := baseTransaction(raw, ctx, utc, local)
	tx.Price = calculatePrice(amount, shares)
	tx.Shares = formatNumberForDisplay(raw.stringValue("share_count"))
	tx.Amount = formatNumberForDisplay(raw.stringValue("total_amount"))
	tx.Tax = formatNumberForDisplay(raw.stringValue("tax"))
	tx.Fee = formatNumberForDisplay(raw.stringValue("fee"))
	tx.Type = raw.stringValue("type")
	tx.AssetType = "Security"
	tx.Identifier = raw.stringValue("isin_code")
	if tx.Identifier == "" {
		return CanonicalTransaction{}, &MissingFieldError{Category: CategoryTrade, Fields: []string{"isin_code"}}
	}
	tx.OriginalCurrency = raw.stringValue("originalcurrency")
	tx.Currency = raw.stringValue("currency")
	return tx, nil
}

func formatDividend(raw RawTransaction, ctx FormatContext, utc, local time.Time) (CanonicalTransaction, error) {
	amount, err := raw.floatValue("total_amount")
	if err != nil {
		return CanonicalTransaction{}, err
	}
	shares, err := raw.floatValue("share_count")
	if err != nil {
		return CanonicalTransaction{}, err
	}

	tx := baseTransaction(raw, ctx, utc, local)
	tx.Price = calculatePrice(amount, shares)
	tx.Shares = formatNumberForDisplay(raw.stringValue("share_count"))
	tx.Amount = formatNumberForDisplay(raw.stringValue("total_amount"))
	tx.Tax = formatNumberForDisplay(raw.stringValue("tax"))
	tx.Fee = formatNumberForDisplay(raw.stringValue("fee"))
	tx.Type = TypeDividend
	tx.AssetType = "Security"
	tx.Identifier = raw.stringValue("isin_code")
	if tx.Identifier == "" {
		return CanonicalTransaction{}, &MissingFieldError{Category: CategoryDividend, Fields: []string{"isin_code"}}
	}
	tx.OriginalCurrency = raw.stringValue("originalcurrency")
	tx.Currency = raw.stringValue("currency")
	return tx, nil
}

func formatInterest(raw RawTransaction, ctx FormatContext, utc, local time.Time) (CanonicalTransaction, error) {
	tx := baseTransaction(raw, ctx, utc, local)
	tx.Price = "1"
	tx.Shares = ""
	tx.Amount = formatNumberForDisplay(raw.stringValue("amount"))
	tx.Tax = "0"
	tx.Fee = "0"
	tx.Type = TypeInterest
	// Interest is credited in the account currency, so both columns carry it.
	tx.OriginalCurrency = raw.stringValue("originalcurrency")
	tx.Currency = raw.stringValue("originalcurrency")
	return tx, nil
}

func formatFee(raw RawTransaction, ctx FormatContext, utc, local time.Time) (CanonicalTransaction, error) {
	fee, err := raw.floatValue("fee")
	if err != nil {
		return CanonicalTransaction{}, err
	}
	tax, err := raw.floatValue("tax")
	if err != nil {
		return CanonicalTransaction{}, err
	}
	// A fee row with no actual charge is invalid, not merely empty.
	if fee <= 0 && tax <= 0 {
		return CanonicalTransaction{}, &InvalidFeeTransactionError{Fee: fee, Tax: tax}
	}

	tx := baseTransaction(raw, ctx, utc, local)
	tx.Price = "1"
	tx.Shares = "0"
	tx.Amount = "0"
	tx.Tax = formatNumberForDisplay(raw.stringValue("tax"))
	tx.Fee = formatNumberForDisplay(raw.stringValue("fee"))
	tx.Type = TypeCost
	tx.Currency = raw.stringValue("currency")
	return tx, nil
}

func formatDepositWithdrawal(raw RawTransaction, ctx FormatContext, utc, local time.Time) (CanonicalTransaction, error) {
	tx := baseTransaction(raw, ctx, utc, local)
	// Cash has no price-per-share concept, shares stays empty.
	tx.Price = "1"
	tx.Shares = ""
	tx.Amount = formatNumberForDisplay(raw.stringValue("total_amount"))
	tx.Tax = "0"
	tx.Fee = "0"
	tx.Type = raw.stringValue("type")
	tx.AssetType = "Cash"
	tx.Currency = raw.stringValue("currency")
	return tx, nil
}
