package blockx

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// Configuration errors
	ErrNilRule              = errors.New("nil blocklist rule")
	ErrBuilderConsumed      = errors.New("builder already built")
	ErrUniverseUnavailable  = errors.New("type universe unavailable")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnknownType          = errors.New("unknown type")

	// Runtime errors
	ErrSerializationDenied = errors.New("serialization denied")
)

// DeniedError is returned by a Hook when a value of its type reaches an encoder.
type DeniedError struct {
	Type    reflect.Type
	Message string
}

func (e *DeniedError) Error() string {
	return e.Message
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrSerializationDenied
}

func NewDeniedError(t reflect.Type) error {
	return &DeniedError{Type: t, Message: deniedMessage(t)}
}

func NewNilRuleError(kind RuleKind, detail string) error {
	return fmt.Errorf("%w: %s %s", ErrNilRule, kind, detail)
}

func NewUniverseError(err error) error {
	return fmt.Errorf("%w: %w", ErrUniverseUnavailable, err)
}

func NewUnknownTypeError(kind RuleKind, name string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s '%s': %w", ErrUnknownType, kind, name, cause)
	}
	return fmt.Errorf("%w: %s '%s' is not in the type universe", ErrUnknownType, kind, name)
}

// IsDenied returns true if the error comes from a blocked type reaching an encoder.
func IsDenied(err error) bool {
	return errors.Is(err, ErrSerializationDenied)
}

// IsConfigurationError returns true if the error is a build-time configuration problem.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrUniverseUnavailable) ||
		errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrNilRule) ||
		errors.Is(err, ErrBuilderConsumed)
}

func deniedMessage(t reflect.Type) string {
	return fmt.Sprintf("attempted to serialize disallowed type %s", shortName(t))
}

func shortName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
