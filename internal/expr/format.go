package expr

import (
	"fmt"
	"strings"
)

// Format renders n as Go-like source text for diagnostics.
//
// Example:
//
//	Format(Both(Gt(Field(x, "Age"), Const(18)), Contains(Field(x, "Name"), Const("a"))))
//
// returns
//
//	(x.Age > 18) && x.Name.Contains("a")
func Format(n Node) string {
	var b strings.Builder
	format(&b, n, false)
	return b.String()
}

// String renders the lambda as "x => body".
func (l Lambda) String() string {
	name := "_"
	if l.Param != nil {
		name = l.Param.Name
	}
	return name + " => " + Format(l.Body)
}

func format(b *strings.Builder, n Node, nested bool) {
	switch node := n.(type) {
	case *Unary:
		if node.Op == Convert {
			b.WriteString("convert(")
			format(b, node.Operand, false)
			b.WriteString(")")
			return
		}
		b.WriteString(node.Op.symbol())
		format(b, node.Operand, true)
	case *Binary:
		if nested {
			b.WriteString("(")
		}
		format(b, node.Left, true)
		b.WriteString(" " + node.Op.symbol() + " ")
		format(b, node.Right, true)
		if nested {
			b.WriteString(")")
		}
	case *Constant:
		if s, ok := node.Value.(string); ok {
			fmt.Fprintf(b, "%q", s)
		} else {
			fmt.Fprintf(b, "%v", node.Value)
		}
	case *Member:
		format(b, node.Target, true)
		b.WriteString("." + node.Name)
	case *Parameter:
		b.WriteString(node.Name)
	case *Call:
		if node.Static {
			b.WriteString(node.Method.String())
		} else {
			format(b, node.Object, true)
			b.WriteString("." + node.Method.Name)
		}
		b.WriteString("(")
		for i, arg := range node.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, arg, false)
		}
		b.WriteString(")")
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}
