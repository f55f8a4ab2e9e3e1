package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func copyFixture(t *testing.T, name, targetDir string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Can't read fixture '%s': %v", name, err)
	}
	target := filepath.Join(targetDir, name)
	if err := os.WriteFile(target, content, 0644); err != nil {
		t.Fatalf("Can't copy fixture: %v", err)
	}
	return target
}

func TestListStatementFiles(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.csv", "c.xlsx", "notes.txt", "d.CSV"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Can't write file: %v", err)
		}
	}

	// Act
	files, err := listStatementFiles(dir)

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("Expected 4 statement files, got %d: %v", len(files), files)
	}
	assertStringEqual(t, filepath.Base(files[0]), "a.csv")
	assertStringEqual(t, filepath.Base(files[len(files)-1]), "d.CSV")
}

func TestDetectBrokerNoMatch(t *testing.T) {
	cfg := testSelmaConfig(t)
	brokers := []StatementExtractor{NewSelmaBroker(cfg)}

	_, err := detectBroker(brokers, filepath.Join("testdata", "config.yaml"))

	if err == nil {
		t.Fatal("Expected error for unrecognized file")
	}
	checkErrorContainsSubstring(t, err, "no broker recognized")
}

func TestProcessStatementFileWritesLedgers(t *testing.T) {
	// Arrange
	cfg := testSelmaConfig(t)
	cfg.DataDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	statement := copyFixture(t, selmaFixture, cfg.DataDir)
	brokers := []StatementExtractor{NewSelmaBroker(cfg)}

	// Act
	err := processStatementFile(brokers, statement, cfg, false)

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, category := range []Category{CategoryTrade, CategoryDividend, CategoryFee, CategoryDepositsWithdrawals} {
		path := filepath.Join(cfg.OutputDir, ledgerFileName("Selma_CH9300762011623852957_"+string(category)))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected ledger for %s at '%s': %v", category, path, err)
		}
	}
	content, err := os.ReadFile(filepath.Join(cfg.OutputDir, "Selma_CH9300762011623852957_trade.csv"))
	if err != nil {
		t.Fatalf("Can't read trade ledger: %v", err)
	}
	if !strings.Contains(string(content), "IE00B4L5Y983") {
		t.Error("Expected trade ledger to carry the traded instrument")
	}
	if strings.Contains(string(content), "transaction_id") {
		t.Error("Expected transaction id to stay internal")
	}
	// The cumulative Selma export is not archived.
	if _, err := os.Stat(statement); err != nil {
		t.Errorf("Expected statement to stay in place: %v", err)
	}
}

func TestProcessStatementFileDryRun(t *testing.T) {
	// Arrange
	cfg := testSelmaConfig(t)
	cfg.DataDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	statement := copyFixture(t, selmaFixture, cfg.DataDir)
	brokers := []StatementExtractor{NewSelmaBroker(cfg)}

	// Act
	err := processStatementFile(brokers, statement, cfg, true)

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("Can't read output directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no ledgers in dry-run mode, got %d files", len(entries))
	}
}

// stubBroker replays canned categories so the pipeline around the brokers
// can be tested without statement fixtures.
type stubBroker struct {
	categories map[Category][]CanonicalTransaction
}

func (b *stubBroker) Name() string { return "Stub" }

func (b *stubBroker) Detect(filePath string) bool { return true }

func (b *stubBroker) Extract(filePath string) (*StatementData, error) {
	return &StatementData{Transactions: []RawTransaction{{}}, PortfolioNumber: "acct"}, nil
}

func (b *stubBroker) Process(data *StatementData, filePath string) (map[Category][]CanonicalTransaction, error) {
	return b.categories, nil
}

func (b *stubBroker) OutputFilePrefix(category Category, filePath string) string {
	return "stub_acct_" + string(category)
}

func (b *stubBroker) Archive(filePath string, data *StatementData) (string, error) {
	return "", nil
}

func TestProcessStatementFileWritesSiblingsDespiteBrokenLedger(t *testing.T) {
	// Arrange: the fee ledger exists but is unparseable, the interest ledger
	// is healthy.
	cfg := testSelmaConfig(t)
	cfg.OutputDir = t.TempDir()
	statement := filepath.Join(t.TempDir(), "statement.pdf")
	if err := os.WriteFile(statement, []byte("x"), 0644); err != nil {
		t.Fatalf("Can't write statement: %v", err)
	}
	feePath := filepath.Join(cfg.OutputDir, ledgerFileName("stub_acct_fee"))
	if err := os.WriteFile(feePath, []byte("datetime;fee\n\"broken"), 0644); err != nil {
		t.Fatalf("Can't write broken ledger: %v", err)
	}
	row := CanonicalTransaction{
		Datetime: "2024-03-15T10:00:00.000Z",
		Type:     TypeCost,
		Fee:      "5",
	}
	interestRow := row
	interestRow.Datetime = "2024-03-15T07:30:00.000Z"
	interestRow.Type = TypeInterest
	brokers := []StatementExtractor{&stubBroker{categories: map[Category][]CanonicalTransaction{
		CategoryFee:      {row},
		CategoryInterest: {interestRow},
	}}}

	// Act
	err := processStatementFile(brokers, statement, cfg, false)

	// Assert: the fee failure is reported but the interest ledger exists.
	if err == nil {
		t.Fatal("Expected error for the unreadable fee ledger")
	}
	checkErrorContainsSubstring(t, err, "can't write ledger")
	checkErrorContainsSubstring(t, err, "stub_acct_fee")
	interestPath := filepath.Join(cfg.OutputDir, ledgerFileName("stub_acct_interest"))
	if _, statErr := os.Stat(interestPath); statErr != nil {
		t.Errorf("Expected interest ledger despite the fee failure: %v", statErr)
	}
	// The statement stays in place for a retry of the failed category.
	if _, statErr := os.Stat(statement); statErr != nil {
		t.Errorf("Expected statement to stay in place: %v", statErr)
	}
}

func TestProcessStatementFileMergeIsIdempotent(t *testing.T) {
	// Arrange
	cfg := testSelmaConfig(t)
	cfg.DataDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	statement := copyFixture(t, selmaFixture, cfg.DataDir)
	brokers := []StatementExtractor{NewSelmaBroker(cfg)}

	// Act: the cumulative export gets re-imported on every run.
	if err := processStatementFile(brokers, statement, cfg, false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(cfg.OutputDir, "Selma_CH9300762011623852957_trade.csv"))
	if err != nil {
		t.Fatalf("Can't read trade ledger: %v", err)
	}
	if err := processStatementFile(brokers, statement, cfg, false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(cfg.OutputDir, "Selma_CH9300762011623852957_trade.csv"))
	if err != nil {
		t.Fatalf("Can't read trade ledger: %v", err)
	}

	// Assert
	assertStringEqual(t, string(second), string(first))
}
