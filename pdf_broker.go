package main

import (
	"fmt"
	"regexp"
	"strings"
)

// pdfCategoryDef describes how one transaction category looks on a
// statement page: the pattern that decides whether the page belongs to the
// category, the per-field capture patterns, and a build function that turns
// the captures into a raw transaction.
type pdfCategoryDef struct {
	category Category
	// match decides whether a page holds a transaction of this category.
	// Its first capture group is available to build as "match".
	match *regexp.Regexp
	// fields maps raw field names to capture patterns, first group wins.
	fields map[string]*regexp.Regexp
	build  func(captured map[string]string, common RawTransaction) (RawTransaction, error)
}

// pdfBrokerSpec is the static description of one PDF statement layout.
type pdfBrokerSpec struct {
	name string
	// identifiers must all appear somewhere in the document.
	identifiers []string
	// anyOfIdentifiers lists alternative letterhead spellings; at least one
	// must appear. Empty means no such requirement.
	anyOfIdentifiers []string
	portfolioPattern *regexp.Regexp
	categories       []pdfCategoryDef
}

// PDFBroker is a table-driven statement extractor shared by the brokers that
// deliver one transaction per PDF page. The per-broker specifics live
// entirely in the pdfBrokerSpec tables.
type PDFBroker struct {
	spec       pdfBrokerSpec
	pages      PageTextExtractor
	config     *Config
	archiveDir string
}

func NewPDFBroker(spec pdfBrokerSpec, pages PageTextExtractor, config *Config, archiveDir string) *PDFBroker {
	return &PDFBroker{spec: spec, pages: pages, config: config, archiveDir: archiveDir}
}

func (b *PDFBroker) Name() string {
	return b.spec.name
}

// Detect requires every broker identifier to appear somewhere in the
// document; statements mention the institution on the letterhead of at least
// one page. Brokers whose letterhead varies list the spellings in
// anyOfIdentifiers instead, one match suffices there.
func (b *PDFBroker) Detect(filePath string) bool {
	if !isPDF(filePath) {
		return false
	}
	pages, err := b.pages.Pages(filePath)
	if err != nil {
		return false
	}
	for _, identifier := range b.spec.identifiers {
		if !pagesContain(pages, identifier) {
			return false
		}
	}
	if len(b.spec.anyOfIdentifiers) == 0 {
		return true
	}
	for _, identifier := range b.spec.anyOfIdentifiers {
		if pagesContain(pages, identifier) {
			return true
		}
	}
	return false
}

func (b *PDFBroker) Extract(filePath string) (*StatementData, error) {
	pages, err := b.pages.Pages(filePath)
	if err != nil {
		return nil, err
	}

	portfolioNumber := extractPortfolioNumber(pages, b.spec.portfolioPattern)
	if portfolioNumber == "" {
		portfolioNumber = "unknown"
	} else {
		portfolioNumber = cleanString(portfolioNumber, "")
	}

	data := &StatementData{PortfolioNumber: portfolioNumber}
	for _, page := range pages {
		for _, def := range b.spec.categories {
			match := def.match.FindStringSubmatch(page)
			if match == nil {
				continue
			}
			captured := b.captureFields(page, def)
			if len(match) > 1 {
				captured["match"] = match[1]
			}
			raw, err := b.buildTransaction(def, captured, portfolioNumber)
			if err != nil {
				return nil, fmt.Errorf("failed to build %s transaction from '%s': %w", def.category, filePath, err)
			}
			data.Transactions = append(data.Transactions, raw)
		}
	}
	return data, nil
}

func (b *PDFBroker) captureFields(page string, def pdfCategoryDef) map[string]string {
	captured := make(map[string]string, len(def.fields))
	for field, pattern := range def.fields {
		if m := pattern.FindStringSubmatch(page); m != nil && len(m) > 1 {
			captured[field] = m[1]
		}
	}
	return captured
}

func (b *PDFBroker) buildTransaction(def pdfCategoryDef, captured map[string]string, portfolioNumber string) (RawTransaction, error) {
	transactionDate := captured["transaction_date"]
	datetime, err := parseDateTimeUTC(transactionDate, "")
	if err != nil {
		return nil, err
	}

	common := RawTransaction{
		"category":         def.category,
		"broker":           b.spec.name,
		"holding":          b.config.HoldingFor(portfolioNumber),
		"datetime":         datetime,
		"transaction_date": transactionDate,
	}
	return def.build(captured, common)
}

func (b *PDFBroker) Process(data *StatementData, filePath string) (map[Category][]CanonicalTransaction, error) {
	if len(data.Transactions) == 0 {
		return nil, fmt.Errorf("no transactions found in '%s'", filePath)
	}

	ctx := FormatContext{
		Broker:  b.spec.name,
		Holding: b.config.HoldingFor(data.PortfolioNumber),
		Zone:    b.config.Location(),
	}

	result := make(map[Category][]CanonicalTransaction)
	for _, def := range b.spec.categories {
		var raws []RawTransaction
		for _, raw := range data.Transactions {
			if raw["category"] == def.category {
				raws = append(raws, raw)
			}
		}
		if len(raws) == 0 {
			continue
		}
		result[def.category] = formatCategory(def.category, raws, ctx)
	}
	return result, nil
}

func (b *PDFBroker) OutputFilePrefix(category Category, filePath string) string {
	broker := strings.ToLower(strings.ReplaceAll(b.spec.name, " ", "_"))
	portfolio := "unknown"
	if data, err := b.Extract(filePath); err == nil && data.PortfolioNumber != "" {
		portfolio = data.PortfolioNumber
	}
	return fmt.Sprintf("%s_%s_%s", broker, portfolio, category)
}

func (b *PDFBroker) Archive(filePath string, data *StatementData) (string, error) {
	if len(data.Transactions) == 0 {
		return "", nil
	}
	first := data.Transactions[0]
	category, _ := first["category"].(Category)
	prefix := fmt.Sprintf("%s-%s", strings.ToLower(strings.ReplaceAll(b.spec.name, " ", "_")), data.PortfolioNumber)
	return moveFileWithConflictResolution(filePath, b.archiveDir, archiveName(prefix, category, first))
}
