package serializer

import (
	"reflect"
	"slices"
	"strings"
)

// field is one JSON object member of a struct layout.
type field struct {
	name      string
	index     []int
	omitEmpty bool
	tagged    bool
}

// typeFields computes the JSON layout of struct type t: exported fields,
// `json` tag names and options, and fields promoted from embedded structs.
// A name claimed by several fields goes to the shallowest one, a tagged field
// breaking ties; an unresolvable tie drops the name, as encoding/json does.
//
// An embedded struct for which custom reports true is not flattened: it
// becomes a member named after its type, so its encoder sees the value.
func typeFields(t reflect.Type, custom func(reflect.Type) bool) []field {
	if custom == nil {
		custom = func(reflect.Type) bool { return false }
	}
	var all []field
	collectFields(t, nil, &all, map[reflect.Type]bool{}, custom)

	byName := make(map[string][]field)
	for _, f := range all {
		byName[f.name] = append(byName[f.name], f)
	}

	out := make([]field, 0, len(byName))
	for _, candidates := range byName {
		if f, ok := dominantField(candidates); ok {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b field) int {
		return slices.Compare(a.index, b.index)
	})
	return out
}

func collectFields(t reflect.Type, index []int, out *[]field, visited map[reflect.Type]bool, custom func(reflect.Type) bool) {
	if visited[t] {
		return
	}
	visited[t] = true
	defer delete(visited, t)

	for i := range t.NumField() {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		ft := sf.Type
		encoded := false
		if sf.Anonymous {
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			encoded = custom(sf.Type) || custom(ft)
			if !sf.IsExported() && ft.Kind() != reflect.Struct && !encoded {
				continue
			}
		} else if !sf.IsExported() {
			continue
		}

		idx := append(slices.Clone(index), i)
		if sf.Anonymous && name == "" && ft.Kind() == reflect.Struct && !encoded {
			collectFields(ft, idx, out, visited, custom)
			continue
		}

		f := field{
			name:      sf.Name,
			index:     idx,
			omitEmpty: hasOption(opts, "omitempty"),
			tagged:    name != "",
		}
		if name != "" {
			f.name = name
		}
		*out = append(*out, f)
	}
}

func dominantField(fields []field) (field, bool) {
	if len(fields) == 1 {
		return fields[0], true
	}
	slices.SortStableFunc(fields, func(a, b field) int {
		if len(a.index) != len(b.index) {
			return len(a.index) - len(b.index)
		}
		switch {
		case a.tagged && !b.tagged:
			return -1
		case !a.tagged && b.tagged:
			return 1
		}
		return 0
	})
	first, second := fields[0], fields[1]
	if len(first.index) == len(second.index) && first.tagged == second.tagged {
		return field{}, false
	}
	return first, true
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

// fieldByIndex walks index from v, reporting false when it crosses a nil
// embedded pointer.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
