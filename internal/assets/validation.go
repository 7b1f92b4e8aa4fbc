package assets

import "fmt"

// MaxStyleNameLength bounds style names.
const MaxStyleNameLength = 64

// ValidateStyleName checks that name is usable as a bare file name.
// Only lower-case ASCII letters, digits, '-' and '_' are accepted, which
// rules out separators, dots and traversal sequences.
func ValidateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	}
	if len(name) > MaxStyleNameLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidStyleName, len(name), MaxStyleNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
		}
	}
	return nil
}
