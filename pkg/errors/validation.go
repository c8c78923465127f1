package errors

import (
	"strings"
	"unicode"
)

// ValidateURL validates a raw URL string before it enters the canonicalizer.
// It rejects values that cannot possibly be URLs so that obviously broken
// observations fail early with a structured error.
//
// The validation rules are intentionally conservative:
//   - No empty values
//   - No control characters or null bytes
//   - Maximum length of 2048 characters
//   - Must contain a colon (scheme separator or SCP-style host separator)
//
// Scheme-specific validation is done by the canonicalizer itself.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	if len(rawURL) > 2048 {
		return New(ErrCodeInvalidURL, "URL too long (max 2048 characters)")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "URL contains control characters")
		}
	}

	if !strings.Contains(rawURL, ":") {
		return New(ErrCodeInvalidURL, "URL missing scheme or host separator: %q", rawURL)
	}

	return nil
}

// ValidateHostname validates a hostname for use in probe requests.
// It prevents header or path injection through crafted host strings.
func ValidateHostname(host string) error {
	if host == "" {
		return New(ErrCodeInvalidInput, "hostname cannot be empty")
	}

	if len(host) > 253 {
		return New(ErrCodeInvalidInput, "hostname too long (max 253 characters)")
	}

	if strings.ContainsAny(host, "/\\?#@ \t") {
		return New(ErrCodeInvalidInput, "hostname contains invalid characters: %q", host)
	}

	for _, r := range host {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "hostname contains control characters")
		}
	}

	return nil
}
