package main

import (
	"bytes"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"strings"
)

// PageTextExtractor provides the text layer of a PDF statement, one string
// per page. Brokers only ever look at the extracted text, so tests can feed
// canned pages without any PDF files involved.
type PageTextExtractor interface {
	Pages(filePath string) ([]string, error)
}

// PdftotextExtractor shells out to the poppler `pdftotext` tool. Layout mode
// keeps the column alignment the broker regexes rely on. Extracted pages are
// cached per path because Detect, Extract and portfolio lookup all read the
// same file.
type PdftotextExtractor struct {
	cache map[string][]string
}

func NewPdftotextExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{cache: make(map[string][]string)}
}

func (e *PdftotextExtractor) Pages(filePath string) ([]string, error) {
	if pages, ok := e.cache[filePath]; ok {
		return pages, nil
	}

	cmd := exec.Command("pdftotext", "-layout", filePath, "-")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to extract text from '%s': %w (%s)", filePath, err, strings.TrimSpace(stderr.String()))
	}

	// pdftotext separates pages with form feeds and appends one after the
	// last page.
	pages := strings.Split(out.String(), "\f")
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	e.cache[filePath] = pages
	return pages, nil
}

func isPDF(filePath string) bool {
	return strings.HasSuffix(strings.ToLower(filePath), ".pdf")
}

// pagesContain reports whether any page contains the identifier.
func pagesContain(pages []string, identifier string) bool {
	for _, page := range pages {
		if strings.Contains(page, identifier) {
			return true
		}
	}
	return false
}

// extractPortfolioNumber finds the statement's account/portfolio identifier
// in the page text, "" when no page matches.
func extractPortfolioNumber(pages []string, pattern *regexp.Regexp) string {
	for _, page := range pages {
		if match := pattern.FindStringSubmatch(page); match != nil {
			number := match[0]
			if len(match) > 1 {
				number = match[1]
			}
			log.Printf("Found portfolio number '%s'.", number)
			return number
		}
	}
	return ""
}
