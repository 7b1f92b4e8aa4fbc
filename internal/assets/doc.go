// Package assets provides the CSS styles inlined into standalone pages.
//
// # Loaders
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── FilesystemLoader  - {name}.css files from a user directory
//	    └── Resolver          - user directory first, built-ins as fallback
//
// A user directory may override a built-in style by shipping a file with
// the same name, e.g. default.css.
//
// # Security
//
// Style names are restricted to lower-case letters, digits, '-' and '_'.
// FilesystemLoader also resolves symlinks and rejects paths that leave its
// base directory.
package assets
