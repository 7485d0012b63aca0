package serializer

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	Street string `json:"street"`
	City   string `json:"city,omitempty"`
}

type audit struct {
	CreatedBy string
	Revision  int `json:"rev"`
}

type customer struct {
	audit
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"-"`
	Tags     []string          `json:"tags"`
	Labels   map[string]int    `json:"labels,omitempty"`
	Address  *address          `json:"address"`
	Extra    any               `json:"extra"`
	Raw      []byte            `json:"raw"`
	Seen     time.Time         `json:"seen"`
	Scores   [2]float64        `json:"scores"`
	Metadata map[string]string `json:"metadata"`
	secret   string
}

type secretToken struct {
	Value string
}

type envelope struct {
	Items []any `json:"items"`
}

type tokenHolder struct {
	secretToken
	Label string
}

type node struct {
	Next *node
}

type denyEncoder struct {
	err error
}

func (d denyEncoder) EncodeValue(io.Writer, reflect.Value) error { return d.err }

type fakeModule struct {
	id       string
	encoders map[reflect.Type]Encoder
	setups   int
}

func (f *fakeModule) Name() string { return "fake" }
func (f *fakeModule) ID() string   { return f.id }
func (f *fakeModule) SetupModule(r Registrar) error {
	f.setups++
	for t, enc := range f.encoders {
		r.AddEncoder(t, enc)
	}
	return nil
}

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	m, err := NewMapper()
	require.NoError(t, err)
	return m
}

func TestMapperMatchesEncodingJSON(t *testing.T) {
	m := newTestMapper(t)

	values := []any{
		nil,
		42,
		"quote \" and <html>",
		[]int{1, 2, 3, 4},
		map[string]any{"b": 1, "a": []string{"x"}},
		map[int]string{2: "two", 1: "one"},
		&address{Street: "Main"},
		customer{
			audit:    audit{CreatedBy: "ops", Revision: 3},
			ID:       7,
			Name:     "Ada",
			Email:    "ada@example.com",
			Tags:     []string{"vip"},
			Address:  &address{Street: "Main", City: "Paris"},
			Extra:    map[string]bool{"ok": true},
			Raw:      []byte("bytes"),
			Seen:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Scores:   [2]float64{1.5, 2},
			Metadata: nil,
			secret:   "hidden",
		},
		uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
	}

	for _, v := range values {
		want, err := json.Marshal(v)
		require.NoError(t, err)

		got, err := m.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got), "value %#v", v)
	}
}

func TestMapperEncoderOverride(t *testing.T) {
	m := newTestMapper(t)
	m.AddEncoder(reflect.TypeFor[secretToken](), EncoderFunc(func(w io.Writer, v reflect.Value) error {
		_, err := io.WriteString(w, `"***"`)
		return err
	}))

	got, err := m.Marshal(map[string]any{"token": secretToken{Value: "s3cr3t"}, "ptr": &secretToken{Value: "x"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ptr":"***","token":"***"}`, string(got))
}

func TestMapperEmbeddedEncoder(t *testing.T) {
	type wrapped struct {
		*secretToken
		Tag string
	}
	m := newTestMapper(t)
	value := wrapped{secretToken: &secretToken{Value: "s3cr3t"}, Tag: "t"}

	got, err := m.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Value":"s3cr3t","Tag":"t"}`, string(got))

	m.AddEncoder(reflect.TypeFor[secretToken](), EncoderFunc(func(w io.Writer, v reflect.Value) error {
		_, err := io.WriteString(w, `"***"`)
		return err
	}))

	got, err = m.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"secretToken":"***","Tag":"t"}`, string(got))

	got, err = m.Marshal(wrapped{Tag: "t"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"secretToken":null,"Tag":"t"}`, string(got))
}

func TestMapperEncoderFailureAbortsWholeGraph(t *testing.T) {
	denied := errors.New("denied")
	m := newTestMapper(t)
	m.AddEncoder(reflect.TypeFor[secretToken](), denyEncoder{err: denied})

	tests := []struct {
		name  string
		value any
		path  string
	}{
		{"standalone", secretToken{}, "$"},
		{"pointer", &secretToken{}, "$"},
		{"slice element", envelope{Items: []any{1, secretToken{}}}, "$.items[1]"},
		{"map value", map[string]any{"k": secretToken{}}, `$["k"]`},
		{"nested pointer", struct{ Inner *secretToken }{Inner: &secretToken{}}, "$.Inner"},
		{"embedded", struct {
			secretToken
			Tag string
		}{secretToken: secretToken{Value: "x"}, Tag: "t"}, "$.secretToken"},
		{"embedded pointer", struct{ *secretToken }{&secretToken{Value: "x"}}, "$.secretToken"},
		{"embedded twice removed", struct{ tokenHolder }{}, "$.secretToken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := m.Marshal(tt.value)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, denied)

			var encErr *EncodeError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, tt.path, encErr.Path)
			assert.Equal(t, reflect.TypeFor[secretToken](), encErr.Type)
		})
	}
}

func TestMapperRegisterModuleOnce(t *testing.T) {
	m := newTestMapper(t)
	mod := &fakeModule{
		id:       uuid.NewString(),
		encoders: map[reflect.Type]Encoder{reflect.TypeFor[secretToken](): denyEncoder{err: errors.New("no")}},
	}

	require.NoError(t, m.RegisterModule(mod))
	require.NoError(t, m.RegisterModule(mod))
	assert.Equal(t, 1, mod.setups)
	assert.Equal(t, []string{mod.ID()}, m.Modules())

	_, err := m.Marshal(secretToken{})
	assert.Error(t, err)

	assert.Error(t, m.RegisterModule(nil))
}

func TestMapperUnsupportedValues(t *testing.T) {
	m := newTestMapper(t)

	tests := []struct {
		name  string
		value any
	}{
		{"channel", make(chan int)},
		{"func", func() {}},
		{"complex", complex(1, 2)},
		{"NaN", []float64{0, nanValue()}},
		{"struct map key", map[address]int{{}: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Marshal(tt.value)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestMapperCycle(t *testing.T) {
	m := newTestMapper(t)
	n := &node{}
	n.Next = n

	_, err := m.Marshal(n)
	assert.ErrorIs(t, err, ErrMaxDepth)
}

func TestNewMapperOptions(t *testing.T) {
	_, err := NewMapper(WithFieldCacheSize(0))
	assert.Error(t, err)

	_, err = NewMapper(WithMapperLogger(nil))
	assert.Error(t, err)

	m, err := NewMapper(WithFieldCacheSize(1))
	require.NoError(t, err)
	for range 3 {
		_, err := m.Marshal(address{Street: "a"})
		require.NoError(t, err)
		_, err = m.Marshal(audit{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, m.layouts.Len())
}

func TestTypeFieldsDominance(t *testing.T) {
	type inner struct {
		Name string
		Dup  string
	}
	type other struct {
		Dup string
	}
	type tagged struct {
		Value string `json:"Name"`
	}
	type outer struct {
		inner
		other
		tagged
		Name string
	}

	fields := typeFields(reflect.TypeFor[outer](), nil)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.name)
	}
	assert.Equal(t, []string{"Name"}, names)
	assert.Equal(t, []int{3}, fields[0].index)
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
