package model

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// TagName is the struct tag read by FromType.
//
// Format: `column:"name,length=64,serialized"`. An empty name keeps the
// field name; "-" skips the field.
const TagName = "column"

// SetNamer is implemented by entities stored under a set name other than
// their type name.
type SetNamer interface {
	SetName() string
}

// Describe builds a Descriptor for the struct type T.
func Describe[T any](opts ...Option) (*Descriptor, error) {
	return FromType(reflect.TypeFor[T](), opts...)
}

// MustDescribe is Describe that panics on error.
// Intended for package-level registration of entity types.
func MustDescribe[T any](opts ...Option) *Descriptor {
	d, err := Describe[T](opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// FromType builds a Descriptor from a struct type (or pointer to one).
// Exported fields become members; unexported fields are ignored.
func FromType(t reflect.Type, opts ...Option) (*Descriptor, error) {
	if t == nil {
		return nil, fmt.Errorf("nil type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %s is not a struct", t)
	}

	set := t.Name()
	if namer, ok := reflect.New(t).Interface().(SetNamer); ok {
		set = namer.SetName()
	}

	var members []Member
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		m, skip, err := parseTag(f)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t, err)
		}
		if skip {
			continue
		}
		members = append(members, m)
	}

	return New(t.Name(), set, members, opts...)
}

// parseTag reads the column tag of f.
func parseTag(f reflect.StructField) (Member, bool, error) {
	m := Member{
		Name:   f.Name,
		Column: f.Name,
		Kind:   f.Type.Kind(),
	}
	if m.Kind == reflect.Pointer {
		m.Kind = f.Type.Elem().Kind()
	}

	tag, ok := f.Tag.Lookup(TagName)
	if !ok {
		return m, false, nil
	}
	if tag == "-" {
		return m, true, nil
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		m.Column = parts[0]
	}
	for _, opt := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "length":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return m, false, fmt.Errorf("field %s: invalid length %q", f.Name, val)
			}
			m.Length = n
		case "serialized":
			m.Serialized = true
		case "":
		default:
			return m, false, fmt.Errorf("field %s: unknown column option %q", f.Name, key)
		}
	}

	return m, false, nil
}
