package main

import (
	"math"
	"regexp"
	"strconv"
)

// Kasparund statements carry one transaction per PDF page, announced by a
// German "Typ:" line. Amounts use the Swiss apostrophe thousands separator.
var kasparundSpec = pdfBrokerSpec{
	name:             "Kasparund AG",
	identifiers:      []string{"Kasparund AG", "St.Gallen"},
	portfolioPattern: regexp.MustCompile(`(CH\d{2}\s\d{4}\s\d{4}\s\d{4}\s\d{4}\s\d)`),
	categories: []pdfCategoryDef{
		{
			category: CategoryDepositsWithdrawals,
			match:    regexp.MustCompile(`(?i)Typ:\s*(Kontoübertrag|Wechselgeld|Übertrag von Anlagen)`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)Verrechneter Betrag:\s*CHF\s*([\d'.,]+)`),
				"currency":         regexp.MustCompile(`Verrechneter Betrag:\s*([A-Z]{3})`),
				"transaction_date": regexp.MustCompile(`(?i)Valuta:\s*(\d{2}\.\d{2}\.\d{4})`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				common["type"] = TypeTransferIn
				common["originalcurrency"] = ""
				common["currency"] = "CHF"
				common["total_amount"] = captured["amount"]
				return common, nil
			},
		},
		{
			category: CategoryTrade,
			match:    regexp.MustCompile(`(?i)Typ:\s*(Kauf|Verkauf)`),
			fields: map[string]*regexp.Regexp{
				"total_amount":     regexp.MustCompile(`(?i)Verrechneter Betrag:\s*[A-Z]{3}\s*([\d'.,-]+)`),
				"currency":         regexp.MustCompile(`Verrechneter Betrag:\s*([A-Z]{3})`),
				"share_count":      regexp.MustCompile(`(?i)Anzahl:\s*(-?[\d.,]+)`),
				"price_per_share":  regexp.MustCompile(`(?i)Kurs:\s*(?:[A-Z]{3}\s)?([\d'.,]+)`),
				"fx_rate":          regexp.MustCompile(`(?i)Umrechnungskurs\s*[A-Z]{3}/[A-Z]{3}\s*([\d'.,]+)`),
				"transaction_date": regexp.MustCompile(`(?i)Valuta:\s*(\d{2}\.\d{2}\.\d{4})`),
				"isin_code":        regexp.MustCompile(`(?i)ISIN:\s*([A-Z0-9]+)`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				if captured["match"] == "Verkauf" {
					common["type"] = TypeSell
				} else {
					common["type"] = TypeBuy
				}
				currency := captured["currency"]
				if currency == "" {
					currency = "CHF"
				}
				common["originalcurrency"] = cleanString(currency, "")
				common["currency"] = cleanString(currency, "")
				common["price_per_share"] = captured["price_per_share"]
				common["total_amount"] = captured["total_amount"]
				common["fxrate"] = captured["fx_rate"]
				common["isin_code"] = cleanString(captured["isin_code"], "")
				common["share_count"] = captured["share_count"]
				return common, nil
			},
		},
		{
			category: CategoryInterest,
			match:    regexp.MustCompile(`(?i)Am\s*(\d{2}\.\d{2}\.\d{4})\s*haben wir Ihrem Konto gutgeschrieben`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)Zinsgutschrift:\s*CHF\s*([\d'.,-]+)`),
				"transaction_date": regexp.MustCompile(`(?i)Am\s*(\d{2}\.\d{2}\.\d{4})\s*haben wir`),
				"currency":         regexp.MustCompile(`Zinsgutschrift:\s*([A-Z]{3})`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				common["type"] = TypeInterest
				common["originalcurrency"] = "CHF"
				common["amount"] = captured["amount"]
				return common, nil
			},
		},
		{
			category: CategoryDividend,
			match:    regexp.MustCompile(`(?i)(Dividendenausschüttung|Rückerstattung Quellensteuer)`),
			fields: map[string]*regexp.Regexp{
				"total_amount":     regexp.MustCompile(`(?i)Gutgeschriebener Betrag:\s*Valuta\s*\d{2}\.\d{2}\.\d{4}\s*CHF\s*([\d'.,-]+)`),
				"currency":         regexp.MustCompile(`Gutgeschriebener Betrag:\s*Valuta\s*\d{2}\.\d{2}\.\d{4}\s*([A-Z]{3})`),
				"share_count":      regexp.MustCompile(`(?i)Anzahl:\s*(-?[\d.,]+)`),
				"transaction_date": regexp.MustCompile(`(?i)Valuta:\s*(\d{2}\.\d{2}\.\d{4})`),
				"isin_code":        regexp.MustCompile(`(?i)ISIN:\s*([A-Z0-9]+)`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				common["type"] = TypeDividend
				common["originalcurrency"] = "CHF"
				common["currency"] = "CHF"
				common["total_amount"] = captured["total_amount"]
				common["share_count"] = captured["share_count"]
				common["isin_code"] = cleanString(captured["isin_code"], "")
				return common, nil
			},
		},
		{
			category: CategoryFee,
			match:    regexp.MustCompile(`(?i)(Verwaltungsgebühr|Depotgebühr|Transaktionsgebühr|Kommission|gebühr|Depotführungsgebühr)`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)Depotführungsgebühren:\s*CHF\s*(-?[\d'.,-]+)`),
				"tax":              regexp.MustCompile(`(?i)Mehrwertsteuer:\s*CHF\s*(-?[\d'.,-]+)`),
				"currency":         regexp.MustCompile(`(?i)Depotführungsgebühren:\s*(CHF)`),
				"transaction_date": regexp.MustCompile(`(?i)Valuta:\s*(\d{2}\.\d{2}\.\d{4})`),
			},
			build: buildKasparundFee,
		},
	},
}

// buildKasparundFee folds the statement's negative fee and VAT lines into
// positive fee/tax values plus their sum as the total.
func buildKasparundFee(captured map[string]string, common RawTransaction) (RawTransaction, error) {
	fee, err := parseOptionalAmount(captured["amount"])
	if err != nil {
		return nil, err
	}
	tax, err := parseOptionalAmount(captured["tax"])
	if err != nil {
		return nil, err
	}
	currency := captured["currency"]
	if currency == "" {
		currency = "CHF"
	}
	common["type"] = TypeCost
	common["originalcurrency"] = currency
	common["currency"] = currency
	common["fee"] = fee
	common["tax"] = tax
	common["total_amount"] = strconv.FormatFloat(fee+tax, 'f', -1, 64)
	return common, nil
}

func parseOptionalAmount(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := parseNumber(value)
	if err != nil {
		return 0, err
	}
	return math.Abs(parsed), nil
}

func NewKasparundBroker(pages PageTextExtractor, config *Config) *PDFBroker {
	return NewPDFBroker(kasparundSpec, pages, config, config.ArchiveDir)
}
