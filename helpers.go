package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// getAbsolutePath checks if a file exists and returns its absolute path.
func getAbsolutePath(filename string) (string, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return filename, fmt.Errorf("error getting absolute path: %v", err)
	}

	_, err = os.Stat(absPath)
	if os.IsNotExist(err) {
		return absPath, fmt.Errorf("file does not exist: %v", absPath)
	} else if err != nil {
		return absPath, fmt.Errorf("error checking file: %v", err)
	}

	return absPath, nil
}

// listStatementFiles returns candidate statement files from the data
// directory, sorted by name for a deterministic processing order.
func listStatementFiles(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("can't read data directory '%s': %w", dataDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".csv", ".xlsx":
			files = append(files, filepath.Join(dataDir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// detectBroker returns the first broker that recognizes the file.
func detectBroker(brokers []StatementExtractor, filePath string) (StatementExtractor, error) {
	for _, broker := range brokers {
		if broker.Detect(filePath) {
			return broker, nil
		}
	}
	return nil, fmt.Errorf("no broker recognized '%s'", filePath)
}

// processStatementFile runs the full pipeline for one input file: detect the
// broker, extract and normalize the transactions, merge each category into
// its ledger, then archive the source file.
func processStatementFile(brokers []StatementExtractor, filePath string, config *Config, dryRun bool) error {
	broker, err := detectBroker(brokers, filePath)
	if err != nil {
		return err
	}
	log.Printf("Processing '%s' as %s statement.", filePath, broker.Name())

	data, err := broker.Extract(filePath)
	if err != nil {
		return fmt.Errorf("extraction failed for '%s': %w", filePath, err)
	}

	categories, err := broker.Process(data, filePath)
	if err != nil {
		return fmt.Errorf("processing failed for '%s': %w", filePath, err)
	}

	// A failed ledger write is fatal for its category only; the remaining
	// categories of the statement are still attempted.
	var writeFailures []error
	for category, transactions := range categories {
		if len(transactions) == 0 {
			continue
		}
		prefix := broker.OutputFilePrefix(category, filePath)
		path := filepath.Join(config.OutputDir, ledgerFileName(prefix))

		rows := make([]LedgerRow, len(transactions))
		for i, tx := range transactions {
			rows[i] = tx.toLedgerRow()
		}

		if dryRun {
			log.Printf("Dry run: would merge %d %s rows into '%s'.", len(rows), category, path)
			continue
		}
		if err := writeLedger(path, rows); err != nil {
			log.Printf("Error: %v", err)
			writeFailures = append(writeFailures, err)
		}
	}
	if len(writeFailures) > 0 {
		// Keep the statement in place so the failed categories get another
		// chance next run; the written ones deduplicate on re-import.
		return fmt.Errorf("failed to write %d ledger(s) for '%s': %w", len(writeFailures), filePath, errors.Join(writeFailures...))
	}

	if dryRun {
		return nil
	}
	if _, err := broker.Archive(filePath, data); err != nil {
		// The ledgers are already written; a failed archive only means the
		// file gets picked up again next run and deduplicated then.
		log.Printf("Warning: can't archive '%s': %v", filePath, err)
	}
	return nil
}
