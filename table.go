package dropin

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"unicode/utf8"
)

var (
	presentationAttrPattern = regexp.MustCompile(`\s(?:class|id|style)="[^"]*"`)
	whitespacePattern       = regexp.MustCompile(`\s+`)
	interTagSpacePattern    = regexp.MustCompile(`>\s+<`)
)

// truncationMarker is appended to markup cut at the maximum length.
const truncationMarker = "..."

// CleanTableHTML normalizes table markup before it is fingerprinted and sent
// to the model: class, id and style attributes are removed, whitespace runs
// collapse to a single space, whitespace between tags is dropped, and the
// result is cut to maxLen characters with a truncation marker appended.
// A non-positive maxLen uses DefaultMaxTableLength.
//
// Attributes are stripped before whitespace is collapsed so that cleaning is
// idempotent: CleanTableHTML(CleanTableHTML(s)) == CleanTableHTML(s).
func CleanTableHTML(html string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxTableLength
	}

	// Removing one attribute can splice text into a new match.
	cleaned := html
	for {
		next := presentationAttrPattern.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = interTagSpacePattern.ReplaceAllString(cleaned, "><")

	if utf8.RuneCountInString(cleaned) > maxLen {
		cleaned = truncateRunes(cleaned, maxLen) + truncationMarker
	}
	return cleaned
}

// truncateRunes returns the first n characters of s. A cut never splits a
// multi-byte character.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Fingerprint returns the cache key for cleaned table markup: the lowercase
// hex MD5 digest.
func Fingerprint(cleaned string) string {
	sum := md5.Sum([]byte(cleaned))
	return hex.EncodeToString(sum[:])
}
