package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "router1", false},
		{"with spaces", "core switch 2", false},
		{"unicode", "коммутатор", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "r1\x07", true},
		{"null byte", "r1\x00", true},
		{"too long", strings.Repeat("a", 257), true},
		{"max length", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTopology) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTopology)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"out/diagram.svg", false},
		{"diagram..svg", false},
		{"", true},
		{"../etc/passwd", true},
		{"out/../../x", true},
		{`out\..\x`, true},
		{"bad\x00path", true},
		{strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	for _, u := range []string{"http://x/icon.png", "https://cdn.example.com/r.svg"} {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}
	for _, u := range []string{"", "ftp://x", "icons/router.png", "javascript:alert(1)"} {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}
