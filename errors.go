package toggle

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingDiscriminant indicates a section map has no "enable" key.
	ErrMissingDiscriminant = errors.New("missing discriminant")

	// ErrTypeMismatch indicates the "enable" value is not a boolean.
	ErrTypeMismatch = errors.New("discriminant is not a boolean")

	// ErrDuplicateKey indicates the "enable" key appears more than once and
	// the format rejects duplicate keys.
	ErrDuplicateKey = errors.New("duplicate discriminant")

	// ErrNotSection indicates the section value is not a map.
	ErrNotSection = errors.New("section is not a map")

	// ErrPayloadShape indicates an enabled payload did not encode as a map.
	ErrPayloadShape = errors.New("payload does not encode as a map")

	// ErrReservedKey indicates an enabled payload encoded its own "enable" key.
	ErrReservedKey = errors.New("payload uses reserved key")

	// ErrDisabled is the panic value of Must on a disabled section.
	ErrDisabled = errors.New("section is disabled")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// SectionError represents a failure raised by Enable while reading or writing
// a section. It wraps a sentinel error with the format and position involved.
type SectionError struct {
	Err    error  // Underlying sentinel error (ErrMissingDiscriminant, etc.)
	Format string // Wire format: yaml, json, msgpack, bson, xml
	Key    string // Key involved, when there is one
	Line   int    // Source line, when the format tracks positions
	Cause  error  // Original error from the format library
}

func (e *SectionError) Error() string {
	msg := e.Err.Error()
	if e.Key != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Key)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Format != "" {
		msg = e.Format + ": " + msg
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// CodecError represents a document marshal/unmarshal error.
// Both the sentinel and the codec's own error are reachable through errors.Is
// and errors.As, so a SectionError from inside the document is still visible.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// newSectionError creates a SectionError for wrapper-level failures.
func newSectionError(sentinel error, format, key string, cause error) *SectionError {
	return &SectionError{
		Err:    sentinel,
		Format: format,
		Key:    key,
		Cause:  cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
