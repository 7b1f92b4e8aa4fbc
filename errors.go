package md2html

import "errors"

// Sentinel errors for library operations.
// Classification and rendering never fail; these cover I/O around them.
var (
	ErrEmptyInput  = errors.New("markdown input cannot be empty")
	ErrReadInput   = errors.New("failed to read markdown input")
	ErrWriteOutput = errors.New("failed to write HTML output")
	ErrStandalone  = errors.New("failed to build standalone document")
)
