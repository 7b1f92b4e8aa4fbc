package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateStyleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"with dash", "dark-blue", false},
		{"with underscore and digits", "theme_2", false},
		{"max length", strings.Repeat("a", MaxStyleNameLength), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxStyleNameLength+1), true},
		{"extension", "default.css", true},
		{"traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"upper case", "Default", true},
		{"space", "my style", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStyleName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStyleName) {
					t.Errorf("ValidateStyleName(%q) error = %v, want ErrInvalidStyleName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateStyleName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}
