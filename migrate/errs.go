package migrate

import "fmt"

// FieldNotFoundError reports a record action addressing a field the
// record does not have (or adding one it already has).
type FieldNotFoundError struct {
	Name   string
	Reason string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Name, e.Reason)
}

// CaseMismatchError reports a variant in a shape an action cannot
// handle, such as a non-optional value where an option is required.
type CaseMismatchError struct {
	Want string
	Got  string
}

func (e *CaseMismatchError) Error() string {
	return fmt.Sprintf("expected case %s, got %s", e.Want, e.Got)
}

// MigrationError wraps a failed action with its index and target path.
// Migration failures are always fatal; there is no lenient mode.
type MigrationError struct {
	Index int
	Path  string
	Err   error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("action %d at %s: %v", e.Index, e.Path, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }
