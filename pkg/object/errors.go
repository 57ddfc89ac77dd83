package object

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHash         = errors.New("invalid hash")
	ErrInvalidObjectFormat = errors.New("invalid object format")
	ErrObjectNotFound      = errors.New("object not found")
	ErrInvalidSignature    = errors.New("invalid signature")
)

// FormatError describes why a stored object could not be parsed.
type FormatError struct {
	Type   ObjectType // expected or parsed type, may be empty
	Reason string
}

func (e *FormatError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Type == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidObjectFormat, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidObjectFormat, e.Type, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidObjectFormat
}

func formatErrorf(t ObjectType, format string, args ...any) error {
	return &FormatError{Type: t, Reason: fmt.Sprintf(format, args...)}
}
