// Package pagesplit holds the text hygiene shared by the document
// extractors: cleaning raw extractor output, splitting plain text into
// pages and detecting the leading section heading of a page.
package pagesplit

import (
	"regexp"
	"strings"
)

// Leading structural marker of Japanese regulation text: 第N条 / 第N章 /
// 第N節 with Arabic or kanji numerals.
var sectionPattern = regexp.MustCompile(`第[0-9０-９一二三四五六七八九十]{1,3}[条章節]`)

const sectionScanRunes = 200

// DetectSection returns the first structural marker within the leading
// portion of a page, or "" when the page has none.
func DetectSection(text string) string {
	runes := []rune(text)
	if len(runes) > sectionScanRunes {
		text = string(runes[:sectionScanRunes])
	}
	return sectionPattern.FindString(text)
}

// CleanText normalizes raw extractor output: CRLF to LF, control
// characters dropped, runs of blank lines collapsed to one.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// SplitPages breaks plain text into page-sized units on form feeds. Text
// without form feeds stays a single page.
func SplitPages(text string) []string {
	parts := strings.Split(text, "\f")
	pages := make([]string, 0, len(parts))
	for _, part := range parts {
		cleaned := CleanText(part)
		if cleaned == "" {
			continue
		}
		pages = append(pages, cleaned)
	}
	return pages
}
