package main

import "regexp"

// Liberty pillar-3a statements come in German and English variants and the
// text layer sometimes splits words ("V aluta", "Gu tschriftsanzeige"), so
// the patterns tolerate stray whitespace inside keywords.
var libertySpec = pdfBrokerSpec{
	name: "Liberty Vorsorge AG",
	anyOfIdentifiers: []string{
		"Liberty Vorsorge AG",
		"Liberty 3a Vorsorgestiftung",
		"Liberty Foundation for 3a",
	},
	portfolioPattern: regexp.MustCompile(`Portfolio\s*(?:Nr\.)?\s*([\d.-]+)`),
	categories: []pdfCategoryDef{
		{
			category: CategoryDepositsWithdrawals,
			match:    regexp.MustCompile(`(?i)(Gu\s*tschriftsanzeige|Belastu\s*ngsanzeige|Credit Advice)`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)(?:gutgeschrieben|belastet|has been credited):\s*CHF\s*([\d'.,]+)`),
				"currency":         regexp.MustCompile(`(?i)(?:gutgeschrieben|belastet|has been credited):\s*(CHF)`),
				"transaction_date": regexp.MustCompile(`(?i)V\s*(?:aluta|alue date)\s+(\d{2}\.\d{2}\.\d{4})`),
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
			match:    regexp.MustCompile(`(?i)(Börsenabrechnu\s*ng)`),
			fields: map[string]*regexp.Regexp{
				"total_amount":     regexp.MustCompile(`(?i)Total K\s*ursw\s*ert\s*[A-Z ]*\s*([-\d'.,]+)`),
				"currency":         regexp.MustCompile(`(?i)Total K\s*ursw\s*ert\s*([A-Z ]*)`),
				"share_count":      regexp.MustCompile(`(?i)(\d+\.\d+) (?:Namen-Aktie|Na\.\s*u\.\s*Inh|Inhaber-Aktie|Anrecht|Anteile)`),
				"price_per_share":  regexp.MustCompile(`(?i)(\d+\.\d+)\s*(?:\r?\n)?\s*Total`),
				"fx_rate":          regexp.MustCompile(`(?i)Change (?:[A-Z\s]+/[A-Z]+)\s*([\d.]+)`),
				"transaction_date": regexp.MustCompile(`(?i)V\s*aluta\s*(\d{2}\.\d{2}\.\d{4})`),
				"isin_code":        regexp.MustCompile(`(?i)ISIN:\s*([A-Z0-9 ]+)`),
			},
			build: func(captured map[string]string, common RawTransaction) (RawTransaction, error) {
				// Liberty only issues settlement notes for purchases.
				common["type"] = TypeBuy
				currency := cleanString(captured["currency"], "")
				if currency == "" {
					currency = "CHF"
				}
				common["originalcurrency"] = currency
				common["currency"] = currency
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
				"currency":         regexp.MustCompile(`(?i)Gutgeschriebener Betrag:\s*Valuta\s*\d{2}\.\d{2}\.\d{4}\s*([A-Z]{3})`),
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
			match:    regexp.MustCompile(`(?i)(Verwaltungsgebühr|Rückerstattung Produktkosten|Produktkosten|Gebühr für Portfolio|Stiftungsgebühr|Beratergebühr)`),
			fields: map[string]*regexp.Regexp{
				"amount":           regexp.MustCompile(`(?i)Total.*?CHF\s*([\d'.,-]+)`),
				"currency":         regexp.MustCompile(`(?i)Total.*?(CHF)`),
				"transaction_date": regexp.MustCompile(`(?i)(?:Valuta|V\s*aluta)\s*(\d{2}\.\d{2}\.\d{4})`),
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

func NewLibertyBroker(pages PageTextExtractor, config *Config) *PDFBroker {
	return NewPDFBroker(libertySpec, pages, config, config.ArchiveDir)
}
