package model

import (
	"fmt"
	"reflect"

	"cuelang.org/go/cue"
)

// cueKinds maps declared member types onto Go kinds.
var cueKinds = map[string]reflect.Kind{
	"string":  reflect.String,
	"int":     reflect.Int,
	"int32":   reflect.Int32,
	"int64":   reflect.Int64,
	"uint":    reflect.Uint,
	"float":   reflect.Float64,
	"float64": reflect.Float64,
	"bool":    reflect.Bool,
	"bytes":   reflect.Slice,
	"time":    reflect.Struct,
}

// CompileCUE parses a CUE value into a Descriptor.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the model struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: User: { set: "users", members: { Id: {type: "int"} } }`)
//	d, err := CompileCUE(v.LookupPath(cue.ParsePath("model.User")))
//
// Fields:
//   - set (optional): table name, defaults to the model name
//   - key (optional): key member/column name, defaults to "Id"
//   - members (required): member name → {type, column?, length?, serialized?}
func CompileCUE(v cue.Value) (*Descriptor, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// Model name comes from the struct label (the path selector)
	var name string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}
	if name == "" {
		return nil, &CompileError{Field: "model", Message: "model must be a labelled struct", Pos: v.Pos()}
	}

	set, err := optionalString(v, "set")
	if err != nil {
		return nil, err
	}

	var opts []Option
	key, err := optionalString(v, "key")
	if err != nil {
		return nil, err
	}
	if key != "" {
		opts = append(opts, WithKeyName(key))
	}

	members, err := parseMembers(v)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, &CompileError{
			Field:   "members",
			Message: "at least one member is required",
			Pos:     v.Pos(),
		}
	}

	d, err := New(name, set, members, opts...)
	if err != nil {
		return nil, &CompileError{Field: "model." + name, Message: err.Error(), Pos: v.Pos()}
	}
	return d, nil
}

// CompileCUEModels compiles every model under the top-level "model" field.
// All errors are collected; descriptors that compiled are still returned.
func CompileCUEModels(root cue.Value) ([]*Descriptor, []error) {
	modelsVal := root.LookupPath(cue.ParsePath("model"))
	if !modelsVal.Exists() {
		return nil, nil
	}

	iter, err := modelsVal.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var (
		out  []*Descriptor
		errs []error
	)
	for iter.Next() {
		d, err := CompileCUE(iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	return out, errs
}

// parseMembers extracts member declarations in source order.
func parseMembers(v cue.Value) ([]Member, error) {
	membersVal := v.LookupPath(cue.ParsePath("members"))
	if !membersVal.Exists() {
		return nil, nil
	}

	iter, err := membersVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var members []Member
	for iter.Next() {
		name := iter.Selector().Unquoted()
		mv := iter.Value()

		typeName, err := optionalString(mv, "type")
		if err != nil {
			return nil, err
		}
		if typeName == "" {
			return nil, &CompileError{
				Field:   fmt.Sprintf("members.%s.type", name),
				Message: "member type is required",
				Pos:     mv.Pos(),
			}
		}
		kind, ok := cueKinds[typeName]
		if !ok {
			return nil, &CompileError{
				Field:   fmt.Sprintf("members.%s.type", name),
				Message: fmt.Sprintf("unsupported member type %q", typeName),
				Pos:     mv.Pos(),
			}
		}

		column, err := optionalString(mv, "column")
		if err != nil {
			return nil, err
		}

		m := Member{Name: name, Column: column, Kind: kind}

		if lv := mv.LookupPath(cue.ParsePath("length")); lv.Exists() {
			n, err := lv.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			m.Length = int(n)
		}
		if sv := mv.LookupPath(cue.ParsePath("serialized")); sv.Exists() {
			b, err := sv.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
			m.Serialized = b
		}

		members = append(members, m)
	}

	return members, nil
}

// optionalString reads an optional string field.
func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: "must be a string", Pos: fv.Pos()}
	}
	return s, nil
}
