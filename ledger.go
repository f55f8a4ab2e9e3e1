package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ledgerDelimiter = ';'

// transactionIDColumn is assigned in memory during merges and never
// serialized.
const transactionIDColumn = "transaction_id"

// Canonical ledger column order (Parqet CSV layout). Columns present in the
// data are written in this order; unknown extra columns follow in
// lexicographic order.
var ledgerColumnOrder = []string{
	"datetime",
	"date",
	"time",
	"price",
	"shares",
	"amount",
	"tax",
	"fee",
	"realizedgains",
	"type",
	"broker",
	"assettype",
	"identifier",
	"wkn",
	"originalcurrency",
	"currency",
	"fxrate",
	"holding",
	"holdingname",
	"holdingnickname",
	"exchange",
	"avgholdingperiod",
}

// ledgerFileName turns a broker/portfolio/category prefix into a file name,
// replacing the separators that would make shells and globs unhappy.
func ledgerFileName(prefix string) string {
	cleaned := strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(prefix)
	return cleaned + ".csv"
}

// readLedgerRows parses an existing ledger file into rows. Short records
// from older versions are tolerated, missing cells stay absent.
func readLedgerRows(path string) ([]LedgerRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ledgerDelimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]LedgerRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(LedgerRow, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeLedger merges newRows into the ledger at path and rewrites the whole
// file. Merge key is the content-derived transaction id: a new row replaces
// an existing row with the same id, all other existing rows are preserved.
// The combined set is written sorted by the UTC datetime column, newest
// first, through a temp file renamed into place so a failure never leaves a
// truncated ledger behind.
func writeLedger(path string, newRows []LedgerRow) error {
	if len(newRows) == 0 {
		log.Printf("Warning: no rows to write for '%s', existing ledger left untouched.", path)
		return nil
	}

	var existing []LedgerRow
	if _, err := os.Stat(path); err == nil {
		existing, err = readLedgerRows(path)
		if err != nil {
			// Rewriting on top of an unreadable ledger would drop its
			// history, so this is fatal for the category.
			return &LedgerWriteError{Path: path, Err: err}
		}
	}

	for _, row := range existing {
		if row[transactionIDColumn] == "" {
			row[transactionIDColumn] = deriveTransactionID(row)
		}
	}
	for _, row := range newRows {
		if row[transactionIDColumn] == "" {
			row[transactionIDColumn] = deriveTransactionID(row)
		}
	}

	// Upsert: keep existing order, replace same-id rows in place, append
	// the genuinely new ones.
	indexByID := make(map[string]int, len(existing))
	combined := make([]LedgerRow, 0, len(existing)+len(newRows))
	for _, row := range existing {
		indexByID[row[transactionIDColumn]] = len(combined)
		combined = append(combined, row)
	}
	for _, row := range newRows {
		if i, ok := indexByID[row[transactionIDColumn]]; ok {
			combined[i] = row
		} else {
			indexByID[row[transactionIDColumn]] = len(combined)
			combined = append(combined, row)
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i]["datetime"] > combined[j]["datetime"]
	})

	columns := ledgerColumns(combined)

	if err := writeLedgerFile(path, columns, combined); err != nil {
		return &LedgerWriteError{Path: path, Err: err}
	}
	log.Printf("Written %d rows into '%s'.", len(combined), path)
	return nil
}

// ledgerColumns picks the output column set: canonical columns present in
// the data in canonical order, then unknown columns sorted by name. The
// transaction id is internal and never written.
func ledgerColumns(rows []LedgerRow) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for column := range row {
			present[column] = true
		}
	}
	delete(present, transactionIDColumn)

	columns := make([]string, 0, len(present))
	for _, column := range ledgerColumnOrder {
		if present[column] {
			columns = append(columns, column)
			delete(present, column)
		}
	}
	extra := make([]string, 0, len(present))
	for column := range present {
		extra = append(extra, column)
	}
	sort.Strings(extra)
	return append(columns, extra...)
}

func writeLedgerFile(path string, columns []string, rows []LedgerRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath) // No-op after a successful rename.

	writer := csv.NewWriter(temp)
	writer.Comma = ledgerDelimiter

	if err := writer.Write(columns); err != nil {
		temp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			temp.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		temp.Close()
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
