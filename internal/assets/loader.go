package assets

// StyleLoader loads CSS by style name (without the .css extension).
// Implementations return ErrStyleNotFound for unknown names and
// ErrInvalidStyleName for names rejected by ValidateStyleName.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}
