package universe

import "reflect"

// HasMarker reports whether t carries marker directly.
//
// An interface marker is carried when t or *t implements it. Any other marker
// is carried when t is a struct embedding the marker (or a pointer to it) as
// one of its own fields; markers embedded deeper are not inherited.
func HasMarker(t, marker reflect.Type) bool {
	if t == nil || marker == nil || t == marker {
		return false
	}
	if marker.Kind() == reflect.Interface {
		if t.Kind() == reflect.Interface {
			return false
		}
		return t.Implements(marker) || reflect.PointerTo(t).Implements(marker)
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == marker || (f.Type.Kind() == reflect.Pointer && f.Type.Elem() == marker) {
			return true
		}
	}
	return false
}

// HasAnyMarker reports whether t carries at least one of markers.
func HasAnyMarker(t reflect.Type, markers []reflect.Type) bool {
	for _, m := range markers {
		if HasMarker(t, m) {
			return true
		}
	}
	return false
}
