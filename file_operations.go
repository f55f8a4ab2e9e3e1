package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// archiveName builds the archive file name for a processed statement from
// its first transaction: <prefix>_<category>_<date> plus the ISIN for trade
// and dividend statements. Dots and dashes are normalized to underscores.
func archiveName(prefix string, category Category, tx RawTransaction) string {
	date := strings.ReplaceAll(tx.stringValue("transaction_date"), ".", "-")
	if date == "" {
		date = "unknown"
	}
	base := fmt.Sprintf("%s_%s_%s", prefix, category, date)
	if category == CategoryTrade || category == CategoryDividend {
		if isin := strings.ReplaceAll(tx.stringValue("isin_code"), " ", ""); isin != "" {
			base = fmt.Sprintf("%s_%s", base, isin)
		}
	}
	return strings.NewReplacer(".", "", "-", "_").Replace(base)
}

// moveFileWithConflictResolution moves a processed statement into targetDir
// under the given base name, keeping the original extension and appending a
// counter when the name is already taken.
func moveFileWithConflictResolution(filePath, targetDir, baseName string) (string, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory '%s': %w", targetDir, err)
	}

	ext := filepath.Ext(filePath)
	target := filepath.Join(targetDir, baseName+ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(targetDir, fmt.Sprintf("%s_%d%s", baseName, counter, ext))
	}

	if err := os.Rename(filePath, target); err != nil {
		return "", fmt.Errorf("failed to move '%s' to '%s': %w", filePath, target, err)
	}
	log.Printf("Archived '%s' as '%s'.", filePath, target)
	return target, nil
}
