// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly names for catalog entries.
package slug

import (
	"strings"
	"unicode"
)

// ImageBase is the path product images are served under.
const ImageBase = "/images/products/"

// Generate creates a URL-friendly slug from a product or category name.
// Letters are lowercased, digits kept, and every other run of characters
// becomes a single hyphen.
// Example: "Vitamin D3 1000IU" → "vitamin-d3-1000iu"
func Generate(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '\'' || r == '.':
			// "Children's" → "childrens", "0.5mg" → "05mg"
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// ImageURL returns the default image path for a product name, or "" when
// the name has no usable characters.
func ImageURL(name string) string {
	s := Generate(name)
	if s == "" {
		return ""
	}
	return ImageBase + s + ".webp"
}
