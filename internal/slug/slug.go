// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds ASCII object-key fragments from Czech titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// separators are runs of anything that isn't a letter or digit.
	separators = regexp.MustCompile(`[^a-z0-9]+`)
)

// Generate creates a URL-friendly slug from the given string. Diacritics
// are folded to their base letters first.
// Example: "Žluťoučký kůň 2026" → "zlutoucky-kun-2026"
func Generate(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		s,
	)
	if err != nil {
		folded = s
	}
	result := strings.ToLower(folded)
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
