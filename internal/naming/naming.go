// Package naming holds the casing helpers shared by the naming analyzer and
// its fix. "First character" means the first rune of the first grapheme
// cluster, so a base letter followed by combining marks is one character.
package naming

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// FirstCluster returns the first grapheme cluster of s, or "" for an empty string.
func FirstCluster(s string) string {
	if s == "" {
		return ""
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}

// StartsLower reports whether the first character of s is a lower-case letter.
func StartsLower(s string) bool {
	r, size := utf8.DecodeRuneInString(FirstCluster(s))
	if size == 0 || r == utf8.RuneError {
		return false
	}
	return unicode.IsLower(r)
}

// UpperFirst upper-cases the first character of s and leaves the rest untouched.
// Combining marks that belong to the first cluster are kept as they are.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	up := unicode.ToUpper(r)
	if up == r {
		return s
	}
	return string(up) + s[size:]
}
