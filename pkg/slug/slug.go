// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are the human-readable identifiers for categories and tags
// (e.g., "machine-learning"). This package handles normalization, accent
// removal, character sanitization, and collision-free allocation within a
// namespace via [Unique].
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// ErrEmpty is returned by [Unique] when the display name normalizes to an
// empty slug (e.g. a name consisting only of punctuation).
var ErrEmpty = errors.New("slug: name normalizes to an empty slug")

// Checker reports whether a candidate slug is already taken in the caller's
// namespace. Callers that update an entity in place should exclude that
// entity's own id inside the closure.
type Checker func(ctx context.Context, slug string) (bool, error)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Replaces non-alphanumeric characters with hyphens.
// 5. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Replace whitespace and special chars with hyphens
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	// 4. Clean up hyphenation
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// Unique derives a slug from name and resolves collisions against the
// caller's namespace by appending "-1", "-2", … until the checker reports
// the candidate as free.
//
// The checker is a best-effort pre-check only: a unique constraint at the
// storage layer remains the final arbiter under concurrent creators. A
// checker error aborts the search immediately so a failing store can never
// turn this into an unbounded loop.
func Unique(ctx context.Context, name string, exists Checker) (string, error) {
	base := From(name)
	if base == "" {
		return "", ErrEmpty
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug: existence check for %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
