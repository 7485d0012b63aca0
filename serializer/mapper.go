package serializer

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	defaultFieldCacheSize = 256
	maxDepth              = 1000
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// MapperOption configures a Mapper.
type MapperOption func(m *Mapper) error

// WithMapperLogger sets the logger used for module installation events.
func WithMapperLogger(logger *zap.Logger) MapperOption {
	return func(m *Mapper) error {
		if logger == nil {
			return fmt.Errorf("mapper logger cannot be nil")
		}
		m.logger = logger
		return nil
	}
}

// WithFieldCacheSize bounds the number of struct layouts kept in memory.
func WithFieldCacheSize(size int) MapperOption {
	return func(m *Mapper) error {
		if size <= 0 {
			return fmt.Errorf("field cache size must be positive, got %d", size)
		}
		m.cacheSize = size
		return nil
	}
}

// Mapper encodes Go values to JSON, consulting its encoder table before the
// default encoding of every value in the graph. It is safe for concurrent use.
type Mapper struct {
	mu        sync.RWMutex
	encoders  map[reflect.Type]Encoder
	modules   map[string]string
	gen       uint64
	layouts   *lru.Cache[layoutKey, []field]
	cacheSize int
	logger    *zap.Logger
}

// NewMapper returns a Mapper with an empty encoder table.
func NewMapper(opts ...MapperOption) (*Mapper, error) {
	m := &Mapper{
		encoders:  make(map[reflect.Type]Encoder),
		modules:   make(map[string]string),
		cacheSize: defaultFieldCacheSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	layouts, err := lru.New[layoutKey, []field](m.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create field cache: %w", err)
	}
	m.layouts = layouts
	return m, nil
}

// AddEncoder registers enc for values of exactly type t, replacing any
// previous encoder for t.
func (m *Mapper) AddEncoder(t reflect.Type, enc Encoder) {
	if t == nil || enc == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make(map[reflect.Type]Encoder, len(m.encoders)+1)
	for k, v := range m.encoders {
		next[k] = v
	}
	next[t] = enc
	m.encoders = next
	m.gen++
}

// RegisterModule installs mod. A module whose ID is already installed is ignored.
func (m *Mapper) RegisterModule(mod Module) error {
	if mod == nil {
		return fmt.Errorf("module cannot be nil")
	}
	m.mu.RLock()
	_, seen := m.modules[mod.ID()]
	m.mu.RUnlock()
	if seen {
		m.logger.Debug("module already registered",
			zap.String("module", mod.Name()),
			zap.String("id", mod.ID()))
		return nil
	}

	if err := mod.SetupModule(m); err != nil {
		return fmt.Errorf("setup module %s: %w", mod.Name(), err)
	}

	m.mu.Lock()
	m.modules[mod.ID()] = mod.Name()
	m.mu.Unlock()
	m.logger.Info("module registered",
		zap.String("module", mod.Name()),
		zap.String("id", mod.ID()))
	return nil
}

// Modules returns the IDs of the installed modules.
func (m *Mapper) Modules() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.modules))
	for id := range m.modules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Marshal returns the JSON encoding of v. Any encoder failure anywhere in the
// value graph fails the whole call and no partial output is returned.
func (m *Mapper) Marshal(v any) ([]byte, error) {
	m.mu.RLock()
	encoders, gen := m.encoders, m.gen
	m.mu.RUnlock()

	st := &encodeState{mapper: m, encoders: encoders, gen: gen}
	if err := st.encode(reflect.ValueOf(v), "$", 0); err != nil {
		return nil, err
	}
	return st.buf.Bytes(), nil
}

// layoutKey ties a struct layout to the encoder table it was computed
// against, since embedded types with an encoder are not flattened.
type layoutKey struct {
	typ reflect.Type
	gen uint64
}

type encodeState struct {
	buf      bytes.Buffer
	mapper   *Mapper
	encoders map[reflect.Type]Encoder
	gen      uint64
}

func (st *encodeState) fields(t reflect.Type) []field {
	key := layoutKey{typ: t, gen: st.gen}
	if f, ok := st.mapper.layouts.Get(key); ok {
		return f
	}
	f := typeFields(t, func(ft reflect.Type) bool {
		_, ok := st.encoders[ft]
		return ok
	})
	st.mapper.layouts.Add(key, f)
	return f
}

func (st *encodeState) encode(v reflect.Value, path string, depth int) error {
	if !v.IsValid() {
		st.buf.WriteString("null")
		return nil
	}
	if depth > maxDepth {
		return &EncodeError{Path: path, Type: v.Type(), Err: ErrMaxDepth}
	}

	t := v.Type()
	if enc, ok := st.encoders[t]; ok {
		if err := enc.EncodeValue(&st.buf, v); err != nil {
			return &EncodeError{Path: path, Type: t, Err: err}
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			st.buf.WriteString("null")
			return nil
		}
		return st.encode(v.Elem(), path, depth+1)
	case reflect.Interface:
		if v.IsNil() {
			st.buf.WriteString("null")
			return nil
		}
		return st.encode(v.Elem(), path, depth+1)
	}

	if handled, err := st.encodeMarshaler(v, path); handled {
		return err
	}

	switch t.Kind() {
	case reflect.Bool:
		st.buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		st.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		st.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return st.encodeFloat(v, path)
	case reflect.String:
		st.writeString(v.String())
	case reflect.Struct:
		return st.encodeStruct(v, path, depth)
	case reflect.Map:
		return st.encodeMap(v, path, depth)
	case reflect.Slice:
		if v.IsNil() {
			st.buf.WriteString("null")
			return nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			if _, custom := st.encoders[t.Elem()]; !custom {
				st.writeString(base64.StdEncoding.EncodeToString(v.Bytes()))
				return nil
			}
		}
		return st.encodeArray(v, path, depth)
	case reflect.Array:
		return st.encodeArray(v, path, depth)
	default:
		return &EncodeError{Path: path, Type: t, Err: ErrUnsupportedType}
	}
	return nil
}

// encodeMarshaler defers to json.Marshaler and encoding.TextMarshaler,
// including pointer-receiver implementations on addressable values.
func (st *encodeState) encodeMarshaler(v reflect.Value, path string) (bool, error) {
	t := v.Type()
	target := v
	switch {
	case t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType):
	case v.CanAddr() && (reflect.PointerTo(t).Implements(jsonMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)):
		target = v.Addr()
	default:
		return false, nil
	}
	if !target.CanInterface() {
		return false, nil
	}

	switch m := target.Interface().(type) {
	case json.Marshaler:
		b, err := m.MarshalJSON()
		if err != nil {
			return true, &EncodeError{Path: path, Type: t, Err: err}
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, b); err != nil {
			return true, &EncodeError{Path: path, Type: t, Err: err}
		}
		st.buf.Write(compact.Bytes())
	case encoding.TextMarshaler:
		b, err := m.MarshalText()
		if err != nil {
			return true, &EncodeError{Path: path, Type: t, Err: err}
		}
		st.writeString(string(b))
	}
	return true, nil
}

func (st *encodeState) encodeFloat(v reflect.Value, path string) error {
	f := v.Float()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return &EncodeError{Path: path, Type: v.Type(), Err: fmt.Errorf("%w: %v", ErrUnsupportedType, f)}
	}
	bits := 64
	if v.Kind() == reflect.Float32 {
		bits = 32
	}
	st.buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
	return nil
}

func (st *encodeState) encodeStruct(v reflect.Value, path string, depth int) error {
	st.buf.WriteByte('{')
	first := true
	for _, f := range st.fields(v.Type()) {
		fv, ok := fieldByIndex(v, f.index)
		if !ok || (f.omitEmpty && isEmptyValue(fv)) {
			continue
		}
		if !first {
			st.buf.WriteByte(',')
		}
		first = false
		st.writeString(f.name)
		st.buf.WriteByte(':')
		if err := st.encode(fv, path+"."+f.name, depth+1); err != nil {
			return err
		}
	}
	st.buf.WriteByte('}')
	return nil
}

func (st *encodeState) encodeMap(v reflect.Value, path string, depth int) error {
	if v.IsNil() {
		st.buf.WriteString("null")
		return nil
	}

	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return &EncodeError{Path: path, Type: v.Type(), Err: err}
		}
		entries = append(entries, entry{key: key, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	st.buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			st.buf.WriteByte(',')
		}
		st.writeString(e.key)
		st.buf.WriteByte(':')
		if err := st.encode(e.val, path+"["+strconv.Quote(e.key)+"]", depth+1); err != nil {
			return err
		}
	}
	st.buf.WriteByte('}')
	return nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.CanInterface() {
		if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
			b, err := tm.MarshalText()
			return string(b), err
		}
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("%w: map key %s", ErrUnsupportedType, k.Type())
}

func (st *encodeState) encodeArray(v reflect.Value, path string, depth int) error {
	st.buf.WriteByte('[')
	for i := range v.Len() {
		if i > 0 {
			st.buf.WriteByte(',')
		}
		if err := st.encode(v.Index(i), path+"["+strconv.Itoa(i)+"]", depth+1); err != nil {
			return err
		}
	}
	st.buf.WriteByte(']')
	return nil
}

func (st *encodeState) writeString(s string) {
	b, _ := json.Marshal(s)
	st.buf.Write(b)
}
