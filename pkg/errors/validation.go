package errors

import (
	"regexp"
	"strings"
)

// maxIdentifierLength bounds tensor names and rank ids. Generated fiber
// names are derived from both, so very long identifiers only produce
// unreadable output.
const maxIdentifierLength = 64

// identifierRegex matches tensor names and rank ids. Rank ids are joined
// into node payloads, so separators and punctuation are rejected.
var identifierRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateTensorName validates a declared tensor name.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 64 characters
//   - Must start with a letter and contain only letters, digits and underscores
func ValidateTensorName(name string) error {
	return validateIdentifier(ErrCodeInvalidTensor, "tensor name", name)
}

// ValidateRankID validates a rank id as it appears in tensor declarations,
// the loop order and partitioning entries.
func ValidateRankID(rank string) error {
	return validateIdentifier(ErrCodeInvalidRank, "rank id", rank)
}

func validateIdentifier(code Code, what, s string) error {
	if s == "" {
		return New(code, "%s cannot be empty", what)
	}
	if len(s) > maxIdentifierLength {
		return New(code, "%s too long (max %d characters): %q", what, maxIdentifierLength, s)
	}
	if !identifierRegex.MatchString(s) {
		return New(code, "invalid %s: %q", what, s)
	}
	return nil
}

// ValidateUnique returns an error naming the first repeated value in vals.
// Comparison is case-sensitive.
func ValidateUnique(code Code, what string, vals []string) error {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			return New(code, "duplicate %s: %q", what, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// ValidateFileExtension checks that path ends in one of the allowed
// extensions (including the dot, compared case-insensitively).
func ValidateFileExtension(path string, allowed ...string) error {
	lower := strings.ToLower(path)
	for _, ext := range allowed {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file type %q (want one of %s)", path, strings.Join(allowed, ", "))
}
