package serializer

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackRegistrar installs encoders into msgpack's process-wide type table.
//
// msgpack resolves struct field encoders once per struct type, so modules must
// be registered before the first Marshal of any type that contains a blocked
// type. Registrations cannot be undone.
type MsgpackRegistrar struct {
	mu      sync.Mutex
	modules map[string]string
}

// Msgpack is the registrar for the process-wide msgpack type table.
var Msgpack = &MsgpackRegistrar{modules: make(map[string]string)}

// AddEncoder routes msgpack encoding of values of type t through enc.
// Interface types are ignored: msgpack dispatches on concrete types only.
func (r *MsgpackRegistrar) AddEncoder(t reflect.Type, enc Encoder) {
	if t == nil || enc == nil || t.Kind() == reflect.Interface {
		return
	}
	msgpack.Register(reflect.Zero(t).Interface(), func(e *msgpack.Encoder, v reflect.Value) error {
		if err := enc.EncodeValue(e.Writer(), v); err != nil {
			return &EncodeError{Type: t, Err: err}
		}
		return nil
	}, nil)
}

// RegisterModule installs mod once per module ID.
func (r *MsgpackRegistrar) RegisterModule(mod Module) error {
	if mod == nil {
		return fmt.Errorf("module cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.modules[mod.ID()]; seen {
		return nil
	}
	if err := mod.SetupModule(r); err != nil {
		return fmt.Errorf("setup module %s: %w", mod.Name(), err)
	}
	r.modules[mod.ID()] = mod.Name()
	return nil
}

// MarshalMsgpack encodes v with msgpack, honoring encoders installed through Msgpack.
func MarshalMsgpack(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}
