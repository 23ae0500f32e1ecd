package expr

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultParam is the row parameter name used when a document names none.
const DefaultParam = "x"

// Document is a predicate written as YAML.
//
// Example:
//
//	name: adults-named-alice
//	model: User
//	param: x
//	vars:
//	  names: [alice, bob]
//	where:
//	  andalso:
//	    - gt: [{member: Age}, {const: 18}]
//	    - in: [{var: names}, {member: Name}]
//
// Node keys:
//   - member: NAME          row member x.NAME
//   - const: VALUE          literal
//   - var: NAME             captured value vars.NAME
//   - not|negate|convert: NODE
//   - add|and|andalso|divide|eq|xor|gt|gte|lt|lte|mod|mul|ne|or|orelse|sub: [NODE, NODE]
//   - contains|startswith|endswith: [NODE, NODE]   (string, pattern)
//   - in: [NODE, NODE]      slices.Contains(collection, item)
//   - has: [NODE, NODE]     collection.Contains(item)
//   - call: {method: Receiver.Name, object: NODE, args: [NODE...], static: BOOL}
type Document struct {
	Name  string         `yaml:"name"`
	Model string         `yaml:"model"`
	Param string         `yaml:"param"`
	Vars  map[string]any `yaml:"vars,omitempty"`

	// Where is the decoded predicate.
	Where Lambda `yaml:"-"`
}

type rawDocument struct {
	Name  string         `yaml:"name"`
	Model string         `yaml:"model"`
	Param string         `yaml:"param"`
	Vars  map[string]any `yaml:"vars"`
	Where yaml.Node      `yaml:"where"`
}

// DecodeError reports a malformed predicate document node.
type DecodeError struct {
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

var unaryKeys = map[string]Kind{
	"not":     Not,
	"negate":  Negate,
	"convert": Convert,
}

var binaryKeys = map[string]Kind{
	"add":     Add,
	"and":     And,
	"andalso": AndAlso,
	"divide":  Divide,
	"eq":      Equal,
	"xor":     ExclusiveOr,
	"gt":      GreaterThan,
	"gte":     GreaterThanOrEqual,
	"lt":      LessThan,
	"lte":     LessThanOrEqual,
	"mod":     Modulo,
	"mul":     Multiply,
	"ne":      NotEqual,
	"or":      Or,
	"orelse":  OrElse,
	"sub":     Subtract,
}

var patternKeys = map[string]Method{
	"contains":   StringContains,
	"startswith": StringHasPrefix,
	"endswith":   StringHasSuffix,
}

// LoadYAML reads and parses a predicate document from path.
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read predicate %s: %w", path, err)
	}
	doc, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse predicate %s: %w", path, err)
	}
	return doc, nil
}

// ParseYAML parses a predicate document.
func ParseYAML(data []byte) (*Document, error) {
	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if raw.Where.Kind == 0 {
		return nil, &DecodeError{Message: "where is required"}
	}

	param := raw.Param
	if param == "" {
		param = DefaultParam
	}

	d := &decoder{row: Row(param), vars: raw.Vars}
	body, err := d.node(&raw.Where)
	if err != nil {
		return nil, err
	}

	return &Document{
		Name:  raw.Name,
		Model: raw.Model,
		Param: param,
		Vars:  raw.Vars,
		Where: Where(d.row, body),
	}, nil
}

// decoder turns yaml nodes into expression nodes.
type decoder struct {
	row  *Parameter
	vars map[string]any
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return &DecodeError{Line: n.Line, Column: n.Column, Message: fmt.Sprintf(format, args...)}
}

func (d *decoder) node(n *yaml.Node) (Node, error) {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, d.errorf(n, "expression must be a mapping with exactly one key")
	}

	key := strings.ToLower(n.Content[0].Value)
	val := n.Content[1]

	switch key {
	case "member":
		if val.Kind != yaml.ScalarNode || val.Value == "" {
			return nil, d.errorf(val, "member must be a name")
		}
		return Field(d.row, val.Value), nil
	case "const":
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, d.errorf(val, "const: %v", err)
		}
		return Const(v), nil
	case "var":
		if val.Kind != yaml.ScalarNode {
			return nil, d.errorf(val, "var must be a name")
		}
		return Field(Const(d.vars), val.Value), nil
	case "in", "has":
		pair, err := d.pair(key, val)
		if err != nil {
			return nil, err
		}
		if key == "in" {
			return In(pair[0], pair[1]), nil
		}
		return Has(pair[0], pair[1]), nil
	case "call":
		return d.call(val)
	}

	if op, ok := unaryKeys[key]; ok {
		operand, err := d.node(val)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}

	if op, ok := binaryKeys[key]; ok {
		pair, err := d.pair(key, val)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: pair[0], Right: pair[1]}, nil
	}

	if method, ok := patternKeys[key]; ok {
		pair, err := d.pair(key, val)
		if err != nil {
			return nil, err
		}
		return &Call{Method: method, Object: pair[0], Args: []Node{pair[1]}}, nil
	}

	return nil, d.errorf(n.Content[0], "unknown expression key %q", key)
}

// pair decodes a two-element sequence.
func (d *decoder) pair(key string, n *yaml.Node) ([2]Node, error) {
	var out [2]Node
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return out, d.errorf(n, "%s takes exactly two operands", key)
	}
	for i := range out {
		node, err := d.node(n.Content[i])
		if err != nil {
			return out, err
		}
		out[i] = node
	}
	return out, nil
}

func (d *decoder) call(n *yaml.Node) (Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "call must be a mapping")
	}

	call := &Call{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case "method":
			receiver, name, found := strings.Cut(v.Value, ".")
			if !found {
				receiver, name = "", v.Value
			}
			call.Method = Method{Receiver: receiver, Name: name}
		case "object":
			obj, err := d.node(v)
			if err != nil {
				return nil, err
			}
			call.Object = obj
		case "args":
			if v.Kind != yaml.SequenceNode {
				return nil, d.errorf(v, "args must be a sequence")
			}
			for _, a := range v.Content {
				arg, err := d.node(a)
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
			}
		case "static":
			if err := v.Decode(&call.Static); err != nil {
				return nil, d.errorf(v, "static: %v", err)
			}
		default:
			return nil, d.errorf(k, "unknown call field %q", k.Value)
		}
	}

	if call.Method.Name == "" {
		return nil, d.errorf(n, "call requires a method")
	}
	return call, nil
}
