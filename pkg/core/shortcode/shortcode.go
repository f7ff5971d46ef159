// Package shortcode generates random short codes and validates custom aliases.
package shortcode

import (
	"math/rand/v2"
	"regexp"
	"slices"
)

// DefaultLength of a generated code
const DefaultLength = 6

const (
	MinAliasLength = 3
	MaxAliasLength = 20
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var aliasRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reserved codes are taken by fixed routes next to the redirect
var reserved = []string{"healthz"}

// Generate returns length characters drawn uniformly from charset.
// The source is not cryptographic; uniqueness is the caller's job.
func Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}

// IsValidAlias reports whether code may be used as a custom alias
func IsValidAlias(code string) bool {
	if len(code) < MinAliasLength || len(code) > MaxAliasLength {
		return false
	}
	return aliasRe.MatchString(code)
}

// IsReserved reports whether code collides with a fixed route
func IsReserved(code string) bool {
	return slices.Contains(reserved, code)
}
