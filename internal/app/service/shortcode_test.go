package service

import (
	"regexp"
	"testing"
)

var hexCode = regexp.MustCompile(`^[0-9a-f]{6}$`)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode error: %v", err)
		}
		if !hexCode.MatchString(code) {
			t.Fatalf("expected 6 lowercase hex characters, got %q", code)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 45 {
		t.Fatalf("expected mostly distinct codes, got %d distinct of 50", len(seen))
	}
}

func TestNormalizeCustomCode(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "abc123", want: "abc123"},
		{raw: " Promo2026 ", wantErr: true},
		{raw: "\tPromo26\n", want: "Promo26"},
		{raw: "ABCDEFGH", want: "ABCDEFGH"},
		{raw: "abc12", wantErr: true},
		{raw: "abc_123", wantErr: true},
		{raw: "abc 123", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "healthz", wantErr: true},
		{raw: "HealthZ", wantErr: true},
		{raw: " healthz ", wantErr: true},
		{raw: "health1", want: "health1"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeCustomCode(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeCustomCode(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{"https://example.com", "http://localhost:3000/a?b=c#d", "https://sub.example.co.uk/path"}
	for _, raw := range valid {
		if err := ValidateURL(raw); err != nil {
			t.Errorf("ValidateURL(%q) unexpected error: %v", raw, err)
		}
	}

	invalid := []string{"", "example.com", "mailto:someone@example.com", "javascript:alert(1)", "http://"}
	for _, raw := range invalid {
		if err := ValidateURL(raw); err == nil {
			t.Errorf("ValidateURL(%q) expected error", raw)
		}
	}
}
