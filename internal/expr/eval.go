package expr

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotEvaluable is returned by Eval for sub-trees that have no value
// before a row is read.
var ErrNotEvaluable = errors.New("expression is not evaluable")

// Eval evaluates a closed sub-tree.
//
// Supported shapes:
//   - Constant: its value
//   - Member: a field of a struct (or pointer to struct) or a key of a
//     string-keyed map, with the target evaluated recursively
//   - Unary Convert: the operand's value
//
// Everything else, including anything rooted in a Parameter, fails with an
// error wrapping ErrNotEvaluable.
func Eval(n Node) (any, error) {
	switch node := n.(type) {
	case *Constant:
		return node.Value, nil
	case *Member:
		target, err := Eval(node.Target)
		if err != nil {
			return nil, err
		}
		return memberValue(target, node.Name)
	case *Unary:
		if node.Op == Convert {
			return Eval(node.Operand)
		}
		return nil, fmt.Errorf("%w: unary %s", ErrNotEvaluable, node.Op)
	case *Parameter:
		return nil, fmt.Errorf("%w: row parameter %q", ErrNotEvaluable, node.Name)
	case nil:
		return nil, fmt.Errorf("%w: nil node", ErrNotEvaluable)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotEvaluable, n)
	}
}

// memberValue reads name from target.
func memberValue(target any, name string) (any, error) {
	v := reflect.ValueOf(target)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: member %q of nil value", ErrNotEvaluable, name)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		f := v.FieldByName(name)
		if !f.IsValid() {
			return nil, fmt.Errorf("%w: %s has no field %q", ErrNotEvaluable, v.Type(), name)
		}
		if !f.CanInterface() {
			return nil, fmt.Errorf("%w: field %q of %s is unexported", ErrNotEvaluable, name, v.Type())
		}
		return f.Interface(), nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s is not string", ErrNotEvaluable, v.Type().Key())
		}
		e := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !e.IsValid() {
			return nil, fmt.Errorf("%w: key %q not found", ErrNotEvaluable, name)
		}
		return e.Interface(), nil
	case reflect.Invalid:
		return nil, fmt.Errorf("%w: member %q of nil value", ErrNotEvaluable, name)
	default:
		return nil, fmt.Errorf("%w: cannot read member %q of %s", ErrNotEvaluable, name, v.Type())
	}
}
