// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query normalizes search box text. The typed text is kept
// case-preserved for display; the normalized form is used only for cache
// keys and highlight matching.
package query

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MinLength is the default minimum number of characters sent to the service.
const MinLength = 2

// Trim removes surrounding whitespace and nothing else.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Normalize returns the trimmed, NFC-composed, lowercased form of s. Two
// spellings that differ only in case or composition normalize equally.
func Normalize(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Length counts the characters of the trimmed query.
func Length(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(strings.TrimSpace(s)))
}

// Searchable reports whether s is long enough to send. minLen <= 0 selects
// MinLength.
func Searchable(s string, minLen int) bool {
	if minLen <= 0 {
		minLen = MinLength
	}
	return Length(s) >= minLen
}
