package assets

import "errors"

// Sentinel errors for style loading.
var (
	// ErrStyleNotFound indicates no loader has a style with that name.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidStyleName indicates the name could escape the style directory
	// or manipulate the extension.
	ErrInvalidStyleName = errors.New("invalid style name")

	// ErrInvalidBasePath indicates the style directory is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid style directory")

	// ErrStyleRead indicates an I/O error while reading a style file.
	ErrStyleRead = errors.New("failed to read style")

	// ErrPathTraversal indicates a resolved path outside the style directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
