// Package dialect provides the SQL vocabulary used to render predicates.
//
// A Fragments value is a read-only table: the operator keyword for each
// expression kind plus the templates for parameter names, placeholders,
// columns and the boolean true literal. The renderer is dialect-agnostic;
// retargeting to another SQL variant means registering another Fragments.
package dialect

import (
	"fmt"
	"strings"

	"github.com/roach88/predsql/internal/expr"
)

// Config is the data a dialect is built from.
//
// Templates are fmt format strings with a single verb:
//   - ParameterName formats the cursor index ("p%d")
//   - Placeholder formats the parameter name ("@%s")
//   - Column formats the mapped column name ("[%s]")
type Config struct {
	Name          string
	ParameterName string
	Placeholder   string
	Column        string

	// True is the literal compared against in "<param> = <true>".
	True string

	// Operators maps kinds to keywords. A missing kind is unsupported.
	// Convert maps to "" and is passed through by renderers.
	Operators map[expr.Kind]string

	// Keywords; empty values take the ANSI defaults.
	Equality string
	Like     string
	In       string
}

// Fragments is an immutable dialect table. Safe for concurrent use.
type Fragments struct {
	name          string
	parameterName string
	placeholder   string
	column        string
	trueLiteral   string
	operators     map[expr.Kind]string
	equality      string
	like          string
	in            string
}

// New builds Fragments from cfg. The operator map is copied.
func New(cfg Config) *Fragments {
	f := &Fragments{
		name:          strings.ToLower(cfg.Name),
		parameterName: cfg.ParameterName,
		placeholder:   cfg.Placeholder,
		column:        cfg.Column,
		trueLiteral:   cfg.True,
		operators:     make(map[expr.Kind]string, len(cfg.Operators)),
		equality:      orDefault(cfg.Equality, "="),
		like:          orDefault(cfg.Like, "LIKE"),
		in:            orDefault(cfg.In, "IN"),
	}
	if f.parameterName == "" {
		f.parameterName = "p%d"
	}
	if f.placeholder == "" {
		f.placeholder = "@%s"
	}
	if f.column == "" {
		f.column = "%s"
	}
	if f.trueLiteral == "" {
		f.trueLiteral = "1"
	}
	for k, v := range cfg.Operators {
		f.operators[k] = v
	}
	return f
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Name returns the registry name of the dialect.
func (f *Fragments) Name() string { return f.name }

// Operator returns the keyword for kind.
// The boolean is false when the dialect has no entry for kind.
func (f *Fragments) Operator(kind expr.Kind) (string, bool) {
	kw, ok := f.operators[kind]
	return kw, ok
}

// ParameterName returns the parameter name for cursor index i.
func (f *Fragments) ParameterName(i int) string {
	return fmt.Sprintf(f.parameterName, i)
}

// Placeholder returns how a parameter name is embedded in SQL text.
func (f *Fragments) Placeholder(name string) string {
	return fmt.Sprintf(f.placeholder, name)
}

// Column formats a physical column name.
func (f *Fragments) Column(name string) string {
	return fmt.Sprintf(f.column, name)
}

// True returns the boolean true literal.
func (f *Fragments) True() string { return f.trueLiteral }

// Equality returns the equality keyword.
func (f *Fragments) Equality() string { return f.equality }

// Like returns the pattern-match keyword.
func (f *Fragments) Like() string { return f.like }

// In returns the set-membership keyword.
func (f *Fragments) In() string { return f.in }

// StandardOperators returns the operator table shared by the built-in
// dialects. Callers may modify the returned map.
func StandardOperators() map[expr.Kind]string {
	return map[expr.Kind]string{
		expr.Add:                "+",
		expr.And:                "&",
		expr.AndAlso:            "AND",
		expr.Divide:             "/",
		expr.Equal:              "=",
		expr.GreaterThan:        ">",
		expr.GreaterThanOrEqual: ">=",
		expr.LessThan:           "<",
		expr.LessThanOrEqual:    "<=",
		expr.Modulo:             "%",
		expr.Multiply:           "*",
		expr.Negate:             "-",
		expr.Not:                "NOT",
		expr.NotEqual:           "<>",
		expr.Or:                 "|",
		expr.OrElse:             "OR",
		expr.Subtract:           "-",
		expr.Convert:            "",
	}
}
