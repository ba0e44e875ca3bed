package ir

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is reported when an operation would leave a map with
// two structurally equal keys.
var ErrDuplicateKey = errors.New("duplicate map key")

// NavigationError reports a path segment that does not match the actual
// shape of the value: wrong container kind, missing field or key, or an
// out-of-range index.
type NavigationError struct {
	At     Optic
	Seg    int
	Got    Kind
	Reason string
}

func (e *NavigationError) Error() string {
	node := "<root>"
	if e.Seg >= 0 && e.Seg < e.At.Len() {
		node = e.At.Nodes()[e.Seg].Kind.String()
	}
	return fmt.Sprintf("cannot navigate %s: segment %d (%s) on %s: %s",
		e.At, e.Seg, node, e.Got, e.Reason)
}

// TypeMismatchError reports an operation applied to a value of the wrong
// shape, outside of path navigation.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}
