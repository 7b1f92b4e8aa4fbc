// Package yamlutil wraps YAML decoding for config files: strict field
// checking, a size cap, and errors that quote the offending source line.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps YAML input at 1 MB.
const MaxInputSize = 1 << 20

// Sentinel errors for YAML operations.
var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrDecode         = errors.New("yamlutil: invalid document")
	ErrEncode         = errors.New("yamlutil: cannot encode value")
)

// UnmarshalStrict decodes data into v and rejects unknown fields.
// Decode errors wrap ErrDecode and include the source position and line,
// e.g. "[2:1] unknown field "threads"".
func UnmarshalStrict(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}

	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("%w:\n%s", ErrDecode, yaml.FormatError(err, false, true))
	}
	return nil
}

// Marshal encodes v as block YAML with two-space indentation.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(2))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return out, nil
}
