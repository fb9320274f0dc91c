// Package security provides SQL safety utilities for caller-supplied
// sort and search input
package security

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidIdentifierRegex matches valid PostgreSQL identifiers
var ValidIdentifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateIdentifier checks if a string is a valid SQL identifier
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > 63 {
		return fmt.Errorf("identifier too long (max 63 characters)")
	}
	if !ValidIdentifierRegex.MatchString(name) {
		return fmt.Errorf("invalid identifier: must contain only lowercase letters, numbers, and underscores, starting with a letter or underscore")
	}
	return nil
}

// QuoteIdentifier safely quotes a PostgreSQL identifier
// This should only be used AFTER validation
func QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// OrderClause validates a caller-supplied sort column against an allowlist
// and returns a safe ORDER BY fragment. The fallback column is used when the
// requested column is empty or not allowed.
func OrderClause(column, direction, fallback string, allowed map[string]bool) string {
	if column == "" || !allowed[column] || ValidateIdentifier(column) != nil {
		column = fallback
	}
	dir := "ASC"
	if strings.EqualFold(direction, "desc") {
		dir = "DESC"
	}
	return QuoteIdentifier(column) + " " + dir
}

// EscapeLikePattern escapes special characters in LIKE patterns
func EscapeLikePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	pattern = strings.ReplaceAll(pattern, `%`, `\%`)
	pattern = strings.ReplaceAll(pattern, `_`, `\_`)
	return pattern
}

// SearchPattern returns a parameter value for a contains-style LIKE search
func SearchPattern(term string) string {
	return "%" + EscapeLikePattern(term) + "%"
}
