package main

import "regexp"

// Terzo pillar-3a statements use a layout close to Kasparund's but label
// amounts with "Betrag" and identify the account by a portfolio number
// instead of an IBAN.
var terzoSpec = pdfBrokerSpec{
	name:             "Terzo Vorsorgestiftung",
	identifiers:      []string{"Terzo Vorsorgestiftung"},
	portfolioPattern: regexp.MustCompile(`Portfolio\s*(?:Nr\.)?\s*([\d.-]+)`),
	categories: []pdfCategoryDef{
		{
			category: CategoryDepositsWithdrawals,
			match:    regexp.MustCompile(`(?i)(Zahlungseingang)`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)Betrag\s*CHF\s*([\d'.,-]+)`),
				"currency":         regexp.MustCompile(`Betrag\s*([A-Z]{3})`),
				"transaction_date": regexp.MustCompile(`(?i)Valuta\s*(\d{2}\.\d{2}\.\d{4})`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				common["type"] = TypeTransferIn
				common["originalcurrency"] = "CHF"
				common["currency"] = "CHF"
				common["total_amount"] = captured["amount"]
				return common, nil
			},
		},
		{
			category: CategoryTrade,
			match:    regexp.MustCompile(`(?i)Order:\s*(Kauf|Verkauf)`),
			fields: map[string]*regexp.Regexp{
				"total_amount":     regexp.MustCompile(`(?i)Betrag\s*[A-Z]{3}\s*([\d'.,-]+)`),
				"share_count":      regexp.MustCompile(`(?i)([\d.]+)\s*(?:Ant|Anteile)\s`),
				"price_per_share":  regexp.MustCompile(`(?i)Kurs:\s*(?:[A-Z]{3}\s)?([\d'.,-]+)`),
				"currency":         regexp.MustCompile(`Betrag\s*([A-Z]{3})`),
				"fx_rate":          regexp.MustCompile(`(?i)Umrechnungskurs\s*[A-Z]{3}/[A-Z]{3}\s*([\d'.,]+)`),
				"transaction_date": regexp.MustCompile(`(?i)Valuta\s*(\d{2}\.\d{2}\.\d{4})`),
				"isin_code":        regexp.MustCompile(`(?i)ISIN:\s*([A-Z0-9]+)`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				if captured["match"] == "Kauf" {
					common["type"] = TypeBuy
				} else {
					common["type"] = TypeSell
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
			match:    regexp.MustCompile(`(?i)(Zins)`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)Zinsgutschrift:\s*CHF\s*([\d'.,-]+)`),
				"transaction_date": regexp.MustCompile(`(?i)Am\s*(\d{2}\.\d{2}\.\d{4})\s*haben wir`),
				"currency":         regexp.MustCompile(`Betrag\s*([A-Z]{3})`),
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
				"transaction_date": regexp.MustCompile(`(?i)Valuta\s*(\d{2}\.\d{2}\.\d{4})`),
				"isin_code":        regexp.MustCompile(`(?i)ISIN:\s*([A-Z0-9]+)`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				common["type"] = TypeDividend
				common["originalcurrency"] = "CHF"
				common["currency"] = "CHF"
				common["total_amount"] = captured["total_amount"]
				common["isin_code"] = cleanString(captured["isin_code"], "")
				return common, nil
			},
		},
		{
			category: CategoryFee,
			match:    regexp.MustCompile(`(?i)(Verwaltungsgebühr)`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)Verrechneter\s+Betrag:\s+Valuta\s+\d{2}\.\d{2}\.\d{4}\s+CHF\s+([\d'.,-]+)`),
				"currency":         regexp.MustCompile(`(?i)Verrechneter\s+Betrag:\s+Valuta\s+\d{2}\.\d{2}\.\d{4}\s+(CHF)`),
				"transaction_date": regexp.MustCompile(`(?i)Am\s*(\d{2}\.\d{2}\.\d{4})\s*haben wir`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				fee, err := parseOptionalAmount(captured["amount"])
				if err != nil {
					return nil, err
				}
				common["type"] = TypeCost
				common["originalcurrency"] = "CHF"
				common["currency"] = "CHF"
				common["fee"] = fee
				common["tax"] = 0.0
				common["total_amount"] = fee
				return common, nil
			},
		},
	},
}

func NewTerzoBroker(pages PageTextExtractor, config *Config) *PDFBroker {
	return NewPDFBroker(terzoSpec, pages, config, config.ArchiveDir)
}
