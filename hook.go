package blockx

import (
	"io"
	"reflect"
)

// RuleKind names the rule category that put a type on the blocklist.
type RuleKind int

const (
	RuleClass RuleKind = iota
	RulePackage
	RuleMarker
)

func (k RuleKind) String() string {
	switch k {
	case RuleClass:
		return "class"
	case RulePackage:
		return "package"
	case RuleMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Hook is the deny-only encoder bound to one blocked type. It never writes
// output; every call fails with a *DeniedError naming the type.
type Hook struct {
	typ  reflect.Type
	kind RuleKind
	err  *DeniedError
}

func newHook(t reflect.Type, kind RuleKind) *Hook {
	return &Hook{
		typ:  t,
		kind: kind,
		err:  &DeniedError{Type: t, Message: deniedMessage(t)},
	}
}

// Type returns the blocked type.
func (h *Hook) Type() reflect.Type { return h.typ }

// Kind returns the rule category that first resolved the type.
func (h *Hook) Kind() RuleKind { return h.kind }

// Message returns the denial message.
func (h *Hook) Message() string { return h.err.Message }

// EncodeValue implements serializer.Encoder.
func (h *Hook) EncodeValue(io.Writer, reflect.Value) error {
	return h.err
}
