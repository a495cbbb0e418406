// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authkey canonicalises role and permission names.
//
// Administrators may type "Account lock" or "compte-verrouillé"; the stored
// form is always ASCII UPPER_SNAKE ("ACCOUNT_LOCK", "COMPTE_VERROUILLE").
package authkey

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonKeyChars matches any run of characters outside the key alphabet.
	nonKeyChars = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Normalize converts an arbitrary Unicode string into an UPPER_SNAKE key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Converts to uppercase.
// 3. Replaces every run of non-alphanumeric characters with one underscore.
// 4. Trims leading and trailing underscores.
func Normalize(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	// 2. Uppercase
	result = strings.ToUpper(result)

	// 3. Collapse separators
	result = nonKeyChars.ReplaceAllString(result, "_")

	return strings.Trim(result, "_")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
