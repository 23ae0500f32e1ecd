package store

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/roach88/predsql/internal/expr"
	"github.com/roach88/predsql/internal/model"
)

// Row is one result row keyed by member name. Columns with no mapped
// member keep their column name.
type Row map[string]any

// row maps scanned column values onto member names.
func (t *Table) row(columns []string, values []any) Row {
	return mapRow(t.model, columns, values)
}

func mapRow(d *model.Descriptor, columns []string, values []any) Row {
	r := make(Row, len(columns))
	for i, col := range columns {
		key := col
		if m, ok := d.MemberForColumn(col); ok {
			key = m.Name
		}
		r[key] = values[i]
	}
	return r
}

// Find runs the predicate and decodes the rows into T.
// T's exported fields are matched by member name.
func Find[T any](ctx context.Context, t *Table, l expr.Lambda) ([]T, error) {
	rows, err := t.Where(ctx, l)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var v T
		if err := r.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Decode copies row values into the struct pointed to by dst.
// Members without a matching exported field are ignored.
func (r Row) Decode(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode row: destination must be a non-nil struct pointer, got %T", dst)
	}
	sv := rv.Elem()

	for name, value := range r {
		f := sv.FieldByName(name)
		if !f.IsValid() || !f.CanSet() {
			continue
		}
		if err := assign(f, value); err != nil {
			return fmt.Errorf("decode row: field %s: %w", name, err)
		}
	}
	return nil
}

var timeType = reflect.TypeFor[time.Time]()

// assign stores a driver value into f, converting between the common
// driver representations (int64, float64, []byte, string, bool, time).
func assign(f reflect.Value, value any) error {
	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}

	if f.Kind() == reflect.Pointer {
		elem := reflect.New(f.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		f.Set(elem)
		return nil
	}

	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(f.Type()):
		f.Set(v)
	case f.Kind() == reflect.Bool && v.CanInt():
		f.SetBool(v.Int() != 0)
	case f.Kind() == reflect.String && v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8:
		f.SetString(string(v.Bytes()))
	case f.Type() == timeType && v.Kind() == reflect.String:
		ts, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(ts))
	case v.Type().ConvertibleTo(f.Type()) && f.Kind() != reflect.String:
		f.Set(v.Convert(f.Type()))
	default:
		return fmt.Errorf("cannot assign %T to %s", value, f.Type())
	}
	return nil
}
