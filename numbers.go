package main

import (
	"log"
	"math"
	"strconv"
	"strings"
)

// parseNumber converts a locale-ambiguous numeric string into a float64.
// Swiss statements use ' for thousands and . as decimal point, German ones
// use , as decimal point; when both . and , appear the comma is a thousands
// mark.
func parseNumber(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, &NumberFormatError{Value: value}
	}
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	if strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	number, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &NumberFormatError{Value: value}
	}
	return number, nil
}

// formatFloatForDisplay renders a number for the ledger: always positive
// (sign is carried by the "type" column), comma as decimal separator, no
// thousands separator, no trailing zeros.
func formatFloatForDisplay(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		log.Printf("Warning: can't format %v for display, using \"0\".", value)
		return "0"
	}
	formatted := strconv.FormatFloat(math.Abs(value), 'f', 10, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")
	return strings.ReplaceAll(formatted, ".", ",")
}

// formatNumberForDisplay is the string-input variant of
// formatFloatForDisplay. An absent value renders as "0"; a malformed one is
// logged and also renders as "0" so a single broken field doesn't abort the
// whole batch.
func formatNumberForDisplay(value string) string {
	if strings.TrimSpace(value) == "" {
		return "0"
	}
	number, err := parseNumber(value)
	if err != nil {
		log.Printf("Warning: can't format '%s' as number, using \"0\": %v", value, err)
		return "0"
	}
	return formatFloatForDisplay(number)
}

// calculatePrice derives the display price per share. Zero shares yield an
// empty price: no price is better than a fabricated one.
func calculatePrice(amount, shares float64) string {
	if shares == 0 {
		return ""
	}
	return formatFloatForDisplay(amount / shares)
}

// cleanString keeps only alphanumeric runes plus the explicitly allowed ones,
// dropping whitespace and everything else.
func cleanString(value string, allowed string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune(allowed, r):
			return r
		}
		return -1
	}, value)
}
