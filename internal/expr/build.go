package expr

// Where builds a Lambda with row parameter p and body.
func Where(p *Parameter, body Node) Lambda {
	return Lambda{Param: p, Body: body}
}

// Row creates a row parameter.
func Row(name string) *Parameter {
	return &Parameter{Name: name}
}

// Field creates a member access target.name.
func Field(target Node, name string) *Member {
	return &Member{Target: target, Name: name}
}

// Const creates a constant.
func Const(v any) *Constant {
	return &Constant{Value: v}
}

func binary(op Kind, l, r Node) *Binary {
	return &Binary{Op: op, Left: l, Right: r}
}

// Eq and the following binary builders create a Binary of the matching Kind.
func Eq(l, r Node) *Binary { return binary(Equal, l, r) }
func Ne(l, r Node) *Binary { return binary(NotEqual, l, r) }
func Gt(l, r Node) *Binary { return binary(GreaterThan, l, r) }
func Ge(l, r Node) *Binary { return binary(GreaterThanOrEqual, l, r) }
func Lt(l, r Node) *Binary { return binary(LessThan, l, r) }
func Le(l, r Node) *Binary { return binary(LessThanOrEqual, l, r) }
func Both(l, r Node) *Binary { return binary(AndAlso, l, r) }
func Either(l, r Node) *Binary { return binary(OrElse, l, r) }
func BitAnd(l, r Node) *Binary { return binary(And, l, r) }
func BitOr(l, r Node) *Binary { return binary(Or, l, r) }
func Xor(l, r Node) *Binary { return binary(ExclusiveOr, l, r) }
func Plus(l, r Node) *Binary { return binary(Add, l, r) }
func Minus(l, r Node) *Binary { return binary(Subtract, l, r) }
func Times(l, r Node) *Binary { return binary(Multiply, l, r) }
func Quo(l, r Node) *Binary { return binary(Divide, l, r) }
func Rem(l, r Node) *Binary { return binary(Modulo, l, r) }

// All folds nodes left to right with AndAlso. It panics on an empty list.
func All(nodes ...Node) Node {
	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = Both(acc, n)
	}
	return acc
}

// Any folds nodes left to right with OrElse. It panics on an empty list.
func Any(nodes ...Node) Node {
	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = Either(acc, n)
	}
	return acc
}

// Invert logically negates n.
func Invert(n Node) *Unary { return &Unary{Op: Not, Operand: n} }

// Neg arithmetically negates n.
func Neg(n Node) *Unary { return &Unary{Op: Negate, Operand: n} }

// Cast wraps n in a type conversion.
func Cast(n Node) *Unary { return &Unary{Op: Convert, Operand: n} }

// Contains is s.Contains(substr) on a string.
func Contains(s, substr Node) *Call {
	return &Call{Method: StringContains, Object: s, Args: []Node{substr}}
}

// StartsWith is s.StartsWith(prefix) on a string.
func StartsWith(s, prefix Node) *Call {
	return &Call{Method: StringHasPrefix, Object: s, Args: []Node{prefix}}
}

// EndsWith is s.EndsWith(suffix) on a string.
func EndsWith(s, suffix Node) *Call {
	return &Call{Method: StringHasSuffix, Object: s, Args: []Node{suffix}}
}

// In is slices.Contains(collection, item).
func In(collection, item Node) *Call {
	return &Call{Method: SlicesContains, Args: []Node{collection, item}, Static: true}
}

// Has is collection.Contains(item).
func Has(collection, item Node) *Call {
	return &Call{Method: CollectionContains, Object: collection, Args: []Node{item}}
}
