// Package serializer defines the contract between blockx modules and the
// encoders that consume them, and ships two hosts implementing it: a
// reflective JSON Mapper and an adapter over msgpack's type table.
package serializer

import (
	"errors"
	"fmt"
	"io"
	"reflect"
)

var (
	// ErrUnsupportedType is returned for kinds the JSON host cannot represent.
	ErrUnsupportedType = errors.New("unsupported type for serialization")
	// ErrMaxDepth is returned when a value graph nests deeper than the mapper allows,
	// which in practice means a pointer cycle.
	ErrMaxDepth = errors.New("maximum encoding depth exceeded")
)

// Encoder writes the encoding of v to w. An encoder that returns an error
// aborts the whole encode call it takes part in.
type Encoder interface {
	EncodeValue(w io.Writer, v reflect.Value) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(w io.Writer, v reflect.Value) error

func (f EncoderFunc) EncodeValue(w io.Writer, v reflect.Value) error {
	return f(w, v)
}

// Registrar is a per-type encoder table. An encoder added for a type is used
// instead of the default encoding for values of exactly that type.
type Registrar interface {
	AddEncoder(t reflect.Type, enc Encoder)
}

// Module contributes encoders to a Registrar in one step.
type Module interface {
	// Name is a human readable label.
	Name() string
	// ID identifies a module instance; hosts install a given ID once.
	ID() string
	SetupModule(r Registrar) error
}

// EncodeError reports an encoder failure at a position in the value graph.
type EncodeError struct {
	Path string
	Type reflect.Type
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("serializer: cannot encode %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("serializer: cannot encode %s at %s: %v", e.Type, e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
