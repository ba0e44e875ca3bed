package eval

import "fmt"

// ConversionError reports a coercion that is out of range or unparsable.
// Narrowing conversions never truncate silently; they fail with this
// error instead.
type ConversionError struct {
	Conversion Conversion
	Input      string
	Reason     string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion %s failed on %s: %s", e.Conversion, e.Input, e.Reason)
}

// FailError is raised by the explicit Fail expression node.
type FailError struct {
	Message string
}

func (e *FailError) Error() string {
	return e.Message
}
