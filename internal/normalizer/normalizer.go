// Package normalizer handles filename normalization for SQL script files.
package normalizer

import (
	"regexp"
	"strings"
)

// SQLExtension is the only extension the normalizer recognises.
const SQLExtension = ".sql"

// DefaultVersion is used when a filename carries no version token.
const DefaultVersion = "1.0"

var (
	// CanonicalPattern matches names that are already in canonical form,
	// e.g. "12. Create_Orders V1.3.sql".
	// Letters and digits are Unicode, so "1. café V1.0.sql" is canonical.
	CanonicalPattern = regexp.MustCompile(`^\d+\.\s[\p{L}\p{N}_]+\sV\d+\.\d+\.sql$`)

	sequencePattern = regexp.MustCompile(`^\d+\.`)
	versionPattern  = regexp.MustCompile(`[vV]?\d+\.\d+`)
	invalidChars    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// ParsedName holds the parts extracted from a raw filename.
type ParsedName struct {
	Sequence    string // Leading "NN." token, empty when absent
	Description string // Sanitized descriptive name
	Version     string // "major.minor" without any v/V prefix
}

// Result is the outcome of normalizing one filename.
// When Unchanged is true the filename was already canonical and NewName
// equals the input.
type Result struct {
	Unchanged bool
	NewName   string
}

// IsCanonical reports whether filename already matches the canonical pattern.
func IsCanonical(filename string) bool {
	return CanonicalPattern.MatchString(filename)
}

// Normalize maps a raw filename to its canonical form.
func Normalize(filename string) Result {
	if IsCanonical(filename) {
		return Result{Unchanged: true, NewName: filename}
	}
	return Result{NewName: Synthesize(Parse(filename))}
}

// Parse splits filename into sequence, description and version.
//
// The stages run in a fixed order: the sequence prefix is taken from the
// base name, the version from the full filename, and the remainder of the
// base name (sequence removed first, then the first version token) is
// sanitized into the description.
func Parse(filename string) ParsedName {
	base := strings.TrimSuffix(filename, SQLExtension)

	sequence, rest := extractSequence(base)
	version := extractVersion(filename)
	rest = removeFirst(rest, versionPattern)

	return ParsedName{
		Sequence:    sequence,
		Description: sanitize(rest),
		Version:     stripVersionPrefix(version),
	}
}

// Synthesize builds the canonical filename from its parts.
// Empty parts are not validated and leave a gap in the result.
func Synthesize(p ParsedName) string {
	return p.Sequence + " " + p.Description + " V" + p.Version + SQLExtension
}

// extractSequence returns the leading "NN." token of base and base with
// that token removed.
func extractSequence(base string) (sequence, rest string) {
	loc := sequencePattern.FindStringIndex(base)
	if loc == nil {
		return "", base
	}
	return base[:loc[1]], base[loc[1]:]
}

// extractVersion returns the first version-like token in filename, or
// DefaultVersion if none is present.
func extractVersion(filename string) string {
	if v := versionPattern.FindString(filename); v != "" {
		return v
	}
	return DefaultVersion
}

// removeFirst deletes the first match of re from s.
func removeFirst(s string, re *regexp.Regexp) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

// sanitize drops punctuation, trims, and turns whitespace runs and hyphens
// into underscores.
func sanitize(s string) string {
	s = invalidChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespaceRuns.ReplaceAllString(s, "_")
	return strings.ReplaceAll(s, "-", "_")
}

func stripVersionPrefix(version string) string {
	return strings.TrimLeft(version, "vV")
}
