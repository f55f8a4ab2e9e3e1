package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfig(t *testing.T) {
	// Act
	cfg, err := readConfig(filepath.Join("testdata", "config.yaml"))

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertStringEqual(t, cfg.DataDir, "data")
	assertStringEqual(t, cfg.OutputDir, "output")
	assertStringEqual(t, cfg.ArchiveDir, "archive")
	assertStringEqual(t, cfg.TimeZoneLocation, "Europe/Zurich")
	assertStringEqual(t, cfg.Location().String(), "Europe/Zurich")
}

func TestReadConfigDefaults(t *testing.T) {
	// Arrange: minimal config.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("holdings:\n  CH1: h1\n"), 0644); err != nil {
		t.Fatalf("Can't write fixture: %v", err)
	}

	// Act
	cfg, err := readConfig(path)

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertStringEqual(t, cfg.DataDir, DEFAULT_DATA_DIR)
	assertStringEqual(t, cfg.OutputDir, DEFAULT_OUTPUT_DIR)
	assertStringEqual(t, cfg.ArchiveDir, DEFAULT_ARCHIVE_DIR)
	if cfg.TimeZoneLocation == "" {
		t.Error("Expected timezone default to be filled in")
	}
}

func TestReadConfigRejectsUnknownFields(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("holdings: {}\nnoSuchOption: 1\n"), 0644); err != nil {
		t.Fatalf("Can't write fixture: %v", err)
	}

	// Act
	_, err := readConfig(path)

	// Assert
	if err == nil {
		t.Fatal("Expected error for unknown config field")
	}
	checkErrorContainsSubstring(t, err, "noSuchOption")
}

func TestReadConfigRejectsBadTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timeZoneLocation: Mars/Olympus\n"), 0644); err != nil {
		t.Fatalf("Can't write fixture: %v", err)
	}

	_, err := readConfig(path)

	if err == nil {
		t.Fatal("Expected error for invalid timezone")
	}
	checkErrorContainsSubstring(t, err, "Mars/Olympus")
}

func TestConfigWriteToFile(t *testing.T) {
	// Arrange
	cfg, err := readConfig(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")

	// Act
	if err := cfg.writeToFile(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	reread, err := readConfig(path)

	// Assert
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertStringEqual(t, reread.TimeZoneLocation, cfg.TimeZoneLocation)
	assertStringEqual(t, reread.HoldingFor("123.456.789"), "my-terzo-3a")
}

func TestHoldingFor(t *testing.T) {
	cfg, err := readConfig(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		expected   string
	}{
		{name: "spaced-iban", identifier: "CH93 0076 2011 6238 5295 7", expected: "my-selma"},
		{name: "compact-iban", identifier: "CH9300762011623852957", expected: "my-selma"},
		{name: "dotted-portfolio", identifier: "123.456.789", expected: "my-terzo-3a"},
		{name: "dashed-portfolio", identifier: "123-456-789", expected: "my-terzo-3a"},
		{name: "unknown-placeholder", identifier: "DE0000000000", expected: UnknownHoldingPlaceholder},
		{name: "empty-placeholder", identifier: "", expected: UnknownHoldingPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertStringEqual(t, cfg.HoldingFor(tt.identifier), tt.expected)
		})
	}
}
