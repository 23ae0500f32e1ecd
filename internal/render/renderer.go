// Package render translates predicate expressions into parameterized SQL
// WHERE fragments.
//
// The Renderer walks an expr.Lambda body bottom-up, resolving member names
// through a model.Descriptor and SQL vocabulary through dialect.Fragments.
// Every value becomes a bound parameter except integer literals, which are
// inlined.
package render

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/roach88/predsql/internal/dialect"
	"github.com/roach88/predsql/internal/expr"
	"github.com/roach88/predsql/internal/model"
	"github.com/roach88/predsql/internal/wherepart"
)

// Renderer renders predicates for one entity in one dialect.
// It holds no per-call state and is safe for concurrent use.
type Renderer struct {
	fragments *dialect.Fragments
	model     *model.Descriptor
}

// New creates a Renderer. Both tables must not be modified afterwards.
func New(fragments *dialect.Fragments, descriptor *model.Descriptor) *Renderer {
	return &Renderer{fragments: fragments, model: descriptor}
}

// Dialect returns the dialect the renderer targets.
func (r *Renderer) Dialect() *dialect.Fragments { return r.fragments }

// Model returns the descriptor members are resolved against.
func (r *Renderer) Model() *model.Descriptor { return r.model }

// Render translates the predicate into a WherePart.
//
// Parameter names are numbered from 1 on every call. The first unsupported
// construct aborts the translation with a *TranslateError.
func (r *Renderer) Render(l expr.Lambda) (wherepart.WherePart, error) {
	if l.Body == nil {
		return wherepart.WherePart{}, unsupportedNode("predicate has no body")
	}

	s := &scope{param: l.Param, cursor: &wherepart.Cursor{}}
	return r.walk(s, l.Body, usage{unary: true})
}

// scope is the state of one Render call.
type scope struct {
	param  *expr.Parameter
	cursor *wherepart.Cursor
}

// usage carries how the parent uses a node.
type usage struct {
	// unary is set for the predicate body and unary operands, where a bare
	// boolean value must become a comparison.
	unary bool

	// prefix and postfix decorate string values (LIKE patterns).
	prefix, postfix string
}

func (r *Renderer) walk(s *scope, n expr.Node, ctx usage) (wherepart.WherePart, error) {
	switch node := n.(type) {
	case *expr.Unary:
		return r.unary(s, node)
	case *expr.Binary:
		return r.binary(s, node)
	case *expr.Constant:
		return r.value(s, node.Value, ctx, true), nil
	case *expr.Member:
		return r.member(s, node, ctx)
	case *expr.Call:
		return r.call(s, node)
	case *expr.Parameter:
		return wherepart.WherePart{}, unsupportedNode("row parameter %q used as a value", node.Name)
	case nil:
		return wherepart.WherePart{}, unsupportedNode("nil expression")
	default:
		return wherepart.WherePart{}, unsupportedNode("expression type %T", n)
	}
}

func (r *Renderer) unary(s *scope, node *expr.Unary) (wherepart.WherePart, error) {
	if !node.Op.IsUnary() {
		return wherepart.WherePart{}, unsupportedNode("%s is not a unary operator", node.Op)
	}
	kw, ok := r.fragments.Operator(node.Op)
	if !ok {
		return wherepart.WherePart{}, unsupportedOperator(node.Op, r.fragments.Name())
	}

	operand, err := r.walk(s, node.Operand, usage{unary: true})
	if err != nil {
		return wherepart.WherePart{}, err
	}

	// Convert has no SQL-visible effect.
	if node.Op == expr.Convert {
		return operand, nil
	}
	return wherepart.Prefix(kw, operand.Group()), nil
}

func (r *Renderer) binary(s *scope, node *expr.Binary) (wherepart.WherePart, error) {
	if node.Op.IsUnary() {
		return wherepart.WherePart{}, unsupportedNode("%s is not a binary operator", node.Op)
	}
	kw, ok := r.fragments.Operator(node.Op)
	if !ok {
		return wherepart.WherePart{}, unsupportedOperator(node.Op, r.fragments.Name())
	}

	left, err := r.walk(s, node.Left, usage{})
	if err != nil {
		return wherepart.WherePart{}, err
	}
	right, err := r.walk(s, node.Right, usage{})
	if err != nil {
		return wherepart.WherePart{}, err
	}
	return wherepart.Concat(left.Group(), kw, right.Group()), nil
}

// value renders a value known before any row is read.
// Integer literals are inlined when inline is set; everything else is bound.
func (r *Renderer) value(s *scope, v any, ctx usage, inline bool) wherepart.WherePart {
	switch val := v.(type) {
	case string:
		return wherepart.Parameter(r.fragments, s.cursor, ctx.prefix+val+ctx.postfix)
	case bool:
		if ctx.unary {
			p := wherepart.Parameter(r.fragments, s.cursor, val)
			return wherepart.Concat(p, r.fragments.Equality(), wherepart.SQL(r.fragments.True()))
		}
	}

	// Integer literals are written into the SQL text, not bound. They come
	// from the expression itself, never from a captured value.
	if inline {
		if text, ok := integerText(v); ok {
			return wherepart.SQL(text)
		}
	}
	return wherepart.Parameter(r.fragments, s.cursor, v)
}

// integerText formats v when it is of an integer kind.
func integerText(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	default:
		return "", false
	}
}

func (r *Renderer) member(s *scope, node *expr.Member, ctx usage) (wherepart.WherePart, error) {
	if expr.IsRowMember(node, s.param) {
		name, err := r.model.Resolve(node.Name)
		if err != nil {
			return wherepart.WherePart{}, unmappedMember(node.Name, err)
		}
		m, _ := r.model.Lookup(node.Name)
		column := wherepart.SQL(r.fragments.Column(name))

		// Booleans are never bare column references.
		if m.Kind == reflect.Bool {
			p := wherepart.Parameter(r.fragments, s.cursor, true)
			return wherepart.Concat(column, r.fragments.Equality(), p), nil
		}
		return column, nil
	}

	if !expr.DependsOn(node, s.param) {
		v, err := expr.Eval(node)
		if err == nil {
			return r.value(s, v, ctx, false), nil
		}

		// Not evaluable: treat the member name as a column.
		column, rerr := r.model.Resolve(node.Name)
		if rerr != nil {
			return wherepart.WherePart{}, unmappedMember(node.Name, rerr)
		}
		return wherepart.SQL(r.fragments.Column(column)), nil
	}

	return wherepart.WherePart{}, unsupportedNode("member %s is not a direct member of the row", expr.Format(node))
}

func (r *Renderer) call(s *scope, node *expr.Call) (wherepart.WherePart, error) {
	switch node.Method {
	case expr.StringContains:
		return r.like(s, node, "%", "%")
	case expr.StringHasPrefix:
		return r.like(s, node, "", "%")
	case expr.StringHasSuffix:
		return r.like(s, node, "%", "")
	}

	if node.Method.Name == "Contains" {
		return r.in(s, node)
	}
	return wherepart.WherePart{}, unsupportedMethod(node.Method, "")
}

// like renders object LIKE <decorated argument>.
func (r *Renderer) like(s *scope, node *expr.Call, prefix, postfix string) (wherepart.WherePart, error) {
	if node.Static || node.Object == nil || len(node.Args) != 1 {
		return wherepart.WherePart{}, unsupportedMethod(node.Method, "expected a string receiver and one argument")
	}

	object, err := r.walk(s, node.Object, usage{})
	if err != nil {
		return wherepart.WherePart{}, err
	}
	pattern, err := r.walk(s, node.Args[0], usage{prefix: prefix, postfix: postfix})
	if err != nil {
		return wherepart.WherePart{}, err
	}
	return wherepart.Concat(object.Group(), r.fragments.Like(), pattern.Group()), nil
}

// in renders item IN (<p1>,<p2>,...) for a closed collection.
func (r *Renderer) in(s *scope, node *expr.Call) (wherepart.WherePart, error) {
	var collection, item expr.Node
	switch {
	case node.Static && len(node.Args) == 2:
		collection, item = node.Args[0], node.Args[1]
	case !node.Static && node.Object != nil && len(node.Args) == 1:
		collection, item = node.Object, node.Args[0]
	default:
		return wherepart.WherePart{}, unsupportedMethod(node.Method, fmt.Sprintf("unexpected shape with %d arguments", len(node.Args)))
	}

	if expr.DependsOn(collection, s.param) {
		return wherepart.WherePart{}, unsupportedMethod(node.Method, "collection depends on the row")
	}
	coll, err := expr.Eval(collection)
	if err != nil {
		return wherepart.WherePart{}, unsupportedMethod(node.Method, err.Error())
	}
	values, err := elements(coll)
	if err != nil {
		return wherepart.WherePart{}, unsupportedMethod(node.Method, err.Error())
	}

	left, err := r.walk(s, item, usage{})
	if err != nil {
		return wherepart.WherePart{}, err
	}
	set := wherepart.Collection(r.fragments, s.cursor, values)
	return wherepart.Concat(left.Group(), r.fragments.In(), set), nil
}

// elements flattens a slice or array. A nil value is an empty collection.
func elements(coll any) ([]any, error) {
	if coll == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(coll)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("collection of type %T is not a slice or array", coll)
	}
}
