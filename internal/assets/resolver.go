package assets

import "errors"

// Resolver looks a style up in a user directory first, then in the
// built-in styles.
type Resolver struct {
	custom   StyleLoader // nil without a user directory
	embedded StyleLoader
}

// NewResolver creates a Resolver. An empty dir uses built-in styles only.
// Returns error if dir is set but not a readable directory.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if dir != "" {
		fsLoader, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads name from the user directory, falling back to the
// built-in styles only when the user directory does not have it.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	css, err := r.custom.LoadStyle(name)
	if err == nil {
		return css, nil
	}
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}
	return r.embedded.LoadStyle(name)
}

// HasCustomLoader reports whether a user directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ StyleLoader = (*Resolver)(nil)
