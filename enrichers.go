package main

import (
	"log"
	"math"
	"time"
)

// Cross-reference enrichers run between extraction and category formatting.
// They work on raw records whose broker has already normalized the shared
// keys: "datetime" (time.Time), "isin_code", "total_amount", "share_count",
// "tax", "type".

const withholdingTaxWindow = 3 * 24 * time.Hour

// mergeStampDuties folds separately listed stamp-duty lines into the tax
// field of the trade they belong to, matched by exact instant and instrument.
// Trades without a matching duty get an explicit 0 so the tax column is never
// absent.
func mergeStampDuties(trades, duties []RawTransaction) {
	type key struct {
		datetime string
		isin     string
	}
	sums := make(map[key]float64, len(duties))
	for _, duty := range duties {
		t, err := duty.timeValue("datetime")
		if err != nil {
			log.Printf("Warning: stamp duty without parsable datetime skipped: %v", err)
			continue
		}
		amount, err := duty.floatValue("total_amount")
		if err != nil {
			log.Printf("Warning: stamp duty with malformed amount skipped: %v", err)
			continue
		}
		sums[key{formatISOUTC(t), duty.stringValue("isin_code")}] += amount
	}

	for _, trade := range trades {
		trade["tax"] = 0.0
		t, err := trade.timeValue("datetime")
		if err != nil {
			continue
		}
		if sum, ok := sums[key{formatISOUTC(t), trade.stringValue("isin_code")}]; ok {
			trade["tax"] = math.Abs(sum)
		}
	}
}

// mergeWithholdingTaxes attaches withholding-tax lines to dividends of the
// same instrument within a three day window either side, tolerating the
// settlement slippage between the dividend posting and the tax line.
func mergeWithholdingTaxes(dividends, taxes []RawTransaction) {
	for _, dividend := range dividends {
		dividend["tax"] = 0.0
		divTime, err := dividend.timeValue("datetime")
		if err != nil {
			continue
		}
		isin := dividend.stringValue("isin_code")

		var sum float64
		for _, tax := range taxes {
			if tax.stringValue("isin_code") != isin {
				continue
			}
			taxTime, err := tax.timeValue("datetime")
			if err != nil {
				continue
			}
			delta := taxTime.Sub(divTime)
			if delta < -withholdingTaxWindow || delta > withholdingTaxWindow {
				continue
			}
			amount, err := tax.floatValue("total_amount")
			if err != nil {
				log.Printf("Warning: withholding tax with malformed amount skipped: %v", err)
				continue
			}
			sum += amount
		}
		dividend["tax"] = math.Abs(sum)
	}
}

// inferDividendShares fills in the share count for dividends whose source
// rows lack one, using the net position built from all strictly earlier
// trades of the same instrument. A dividend with no qualifying trades or a
// non-positive net position cannot be represented faithfully and is dropped.
// Returns the dividends that survived.
func inferDividendShares(trades, dividends []RawTransaction) []RawTransaction {
	kept := make([]RawTransaction, 0, len(dividends))
	for _, dividend := range dividends {
		divTime, err := dividend.timeValue("datetime")
		if err != nil {
			log.Printf("Warning: skipping dividend without parsable datetime: %v", err)
			continue
		}
		isin := dividend.stringValue("isin_code")

		var netShares float64
		matched := false
		for _, trade := range trades {
			if trade.stringValue("isin_code") != isin {
				continue
			}
			tradeTime, err := trade.timeValue("datetime")
			if err != nil || !tradeTime.Before(divTime) {
				continue
			}
			shares, err := trade.floatValue("share_count")
			if err != nil {
				continue
			}
			matched = true
			switch trade.stringValue("type") {
			case TypeBuy:
				netShares += shares
			case TypeSell:
				netShares -= shares
			}
		}

		if !matched {
			log.Printf("Warning: no trades found for dividend on '%s' at %s, record dropped.", isin, formatISOUTC(divTime))
			continue
		}
		if netShares <= 0 {
			log.Printf("Warning: net position for dividend on '%s' at %s is %v, record dropped.", isin, formatISOUTC(divTime), netShares)
			continue
		}

		amount, err := dividend.floatValue("total_amount")
		if err != nil {
			log.Printf("Warning: skipping dividend on '%s' with malformed amount: %v", isin, err)
			continue
		}
		dividend["share_count"] = netShares
		dividend["price_per_share"] = amount / netShares
		kept = append(kept, dividend)
	}
	return kept
}

// aggregateSameDayDividends collapses multiple dividend lines for the same
// (instant, instrument, currency) into one record: amounts and taxes are
// summed, share count, broker and original currency come from the first
// member. Brokers split one dividend event into several statement lines, for
// example a gross line plus a withholding reversal.
func aggregateSameDayDividends(dividends []RawTransaction) []RawTransaction {
	type key struct {
		datetime string
		isin     string
		currency string
	}
	order := make([]key, 0, len(dividends))
	grouped := make(map[key]RawTransaction, len(dividends))

	for _, dividend := range dividends {
		t, err := dividend.timeValue("datetime")
		if err != nil {
			log.Printf("Warning: skipping dividend without parsable datetime: %v", err)
			continue
		}
		amount, err := dividend.floatValue("total_amount")
		if err != nil {
			log.Printf("Warning: skipping dividend with malformed amount: %v", err)
			continue
		}
		tax, err := dividend.floatValue("tax")
		if err != nil {
			tax = 0
		}

		k := key{formatISOUTC(t), dividend.stringValue("isin_code"), dividend.stringValue("currency")}
		existing, ok := grouped[k]
		if !ok {
			// First member wins shares, broker and original currency.
			dividend["total_amount"] = amount
			dividend["tax"] = tax
			grouped[k] = dividend
			order = append(order, k)
			continue
		}
		sumAmount, _ := existing.floatValue("total_amount")
		sumTax, _ := existing.floatValue("tax")
		existing["total_amount"] = sumAmount + amount
		existing["tax"] = sumTax + tax
	}

	aggregated := make([]RawTransaction, 0, len(order))
	for _, k := range order {
		dividend := grouped[k]
		amount, _ := dividend.floatValue("total_amount")
		shares, _ := dividend.floatValue("share_count")
		if shares > 0 {
			dividend["price_per_share"] = amount / shares
		}
		aggregated = append(aggregated, dividend)
	}
	return aggregated
}
