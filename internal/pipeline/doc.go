// Package pipeline implements the I/O stages around line classification.
//
// This package handles the parts of a conversion that are not the
// classification rules themselves:
//   - Splitting an input stream into lines (CR/LF stripping, byte limit)
//   - Wrapping rendered fragments in a standalone HTML5 page
//   - Extracting plain text from inline HTML for page titles
//
// Classification and rendering live in the root md2html package, which
// calls into this package for reading and page assembly.
package pipeline
