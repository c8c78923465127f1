package errors

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://github.com/foo/bar", false},
		{"valid scp style", "git@github.com:foo/bar.git", false},
		{"empty", "", true},
		{"no colon", "github.com/foo/bar", true},
		{"control character", "https://example.com/\x00", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 2048), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidURL {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidURL)
			}
		})
	}
}

func TestValidateHostname(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		wantErr bool
	}{
		{"valid", "gitlab.example.org", false},
		{"valid with port", "gitlab.example.org:8080", false},
		{"empty", "", true},
		{"path injection", "example.com/api", true},
		{"space", "exam ple.com", true},
		{"at sign", "user@example.com", true},
		{"too long", strings.Repeat("a", 254), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostname(tt.host)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHostname(%q) error = %v, wantErr %v", tt.host, err, tt.wantErr)
			}
		})
	}
}
