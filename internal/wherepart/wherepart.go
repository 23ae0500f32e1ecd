// Package wherepart builds rendered SQL text together with the parameter
// bindings it references.
//
// A WherePart is a value: combining two parts copies their bindings into a
// new part and never mutates either input. Parameter names come from a
// Cursor owned by one translation call, so names never collide when parts
// are merged.
package wherepart

import (
	"strings"
)

// Namer turns cursor indexes into parameter names and placeholders.
// *dialect.Fragments implements it.
type Namer interface {
	ParameterName(index int) string
	Placeholder(name string) string
}

// Cursor is the monotonic parameter counter for one translation call.
// The zero value is ready to use; the first index is 1.
type Cursor struct {
	n int
}

// Next advances the cursor and returns the new index.
func (c *Cursor) Next() int {
	c.n++
	return c.n
}

// Count returns how many indexes have been issued.
func (c *Cursor) Count() int { return c.n }

// Binding is one named parameter value.
type Binding struct {
	Name  string
	Value any
}

// WherePart is rendered SQL text plus its bindings in insertion order.
type WherePart struct {
	SQL    string
	Params []Binding

	composite bool
}

// SQL wraps literal text with no parameters.
func SQL(text string) WherePart {
	return WherePart{SQL: text}
}

// Parameter binds value under the next cursor name and renders its
// placeholder.
func Parameter(n Namer, c *Cursor, value any) WherePart {
	name := n.ParameterName(c.Next())
	return WherePart{
		SQL:    n.Placeholder(name),
		Params: []Binding{{Name: name, Value: value}},
	}
}

// Concat joins left and right with op: "left op right".
func Concat(left WherePart, op string, right WherePart) WherePart {
	params := make([]Binding, 0, len(left.Params)+len(right.Params))
	params = append(params, left.Params...)
	params = append(params, right.Params...)
	return WherePart{
		SQL:       left.SQL + " " + op + " " + right.SQL,
		Params:    params,
		composite: true,
	}
}

// Prefix applies a unary keyword: "op operand".
//
// "-" is written without a space unless the operand itself starts with
// "-": "--" opens a line comment in every supported dialect.
func Prefix(op string, operand WherePart) WherePart {
	sep := " "
	if op == "-" && !strings.HasPrefix(operand.SQL, "-") {
		sep = ""
	}
	return WherePart{
		SQL:       op + sep + operand.SQL,
		Params:    append([]Binding(nil), operand.Params...),
		composite: true,
	}
}

// EmptyCollection is the IN operand for an empty sequence: a subquery
// with no rows.
const EmptyCollection = "(SELECT NULL WHERE 1 = 0)"

// Collection expands values into "(p1,p2,...)", one binding per element,
// for the right-hand side of IN.
//
// An empty sequence renders EmptyCollection. "x IN (SELECT NULL WHERE 1 = 0)"
// is FALSE for every row, so its negation is TRUE. "x IN (NULL)" would be
// NULL instead, and NOT NULL is still NULL.
func Collection(n Namer, c *Cursor, values []any) WherePart {
	if len(values) == 0 {
		return WherePart{SQL: EmptyCollection}
	}

	placeholders := make([]string, len(values))
	params := make([]Binding, len(values))
	for i, v := range values {
		name := n.ParameterName(c.Next())
		placeholders[i] = n.Placeholder(name)
		params[i] = Binding{Name: name, Value: v}
	}
	return WherePart{
		SQL:    "(" + strings.Join(placeholders, ",") + ")",
		Params: params,
	}
}

// Group parenthesizes a composite part. Leaf parts are returned as is.
func (w WherePart) Group() WherePart {
	if !w.composite {
		return w
	}
	return WherePart{SQL: "(" + w.SQL + ")", Params: w.Params}
}

// Composite reports whether w was built by Concat or Prefix.
func (w WherePart) Composite() bool { return w.composite }

// Len returns the number of bindings.
func (w WherePart) Len() int { return len(w.Params) }

// Names returns the binding names in order.
func (w WherePart) Names() []string {
	names := make([]string, len(w.Params))
	for i, p := range w.Params {
		names[i] = p.Name
	}
	return names
}

// Values returns the bound values in order.
func (w WherePart) Values() []any {
	values := make([]any, len(w.Params))
	for i, p := range w.Params {
		values[i] = p.Value
	}
	return values
}

// Map returns the bindings keyed by name.
func (w WherePart) Map() map[string]any {
	m := make(map[string]any, len(w.Params))
	for _, p := range w.Params {
		m[p.Name] = p.Value
	}
	return m
}

// String returns the SQL text.
func (w WherePart) String() string { return w.SQL }
