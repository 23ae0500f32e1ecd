// Package expr provides the predicate expression tree that predsql
// translates into WHERE-clause fragments.
//
// A predicate is a Lambda: a row parameter plus a boolean body built from a
// closed set of node kinds. The render package walks the body; the dialect
// package supplies the SQL vocabulary.
//
// ARCHITECTURE:
//
//	[Lambda] → [render.Renderer] → [wherepart.WherePart] → [store / caller]
//	              ↑           ↑
//	       [model.Descriptor] [dialect.Fragments]
//
// SEALED INTERFACE:
//
// Node is sealed using the marker method pattern. Only the node types in
// this package implement it:
//   - Unary: Not, Negate, Convert applied to an operand
//   - Binary: arithmetic, comparison and logical operators
//   - Constant: a literal or a captured value
//   - Member: Target.Name access
//   - Call: a method call identified by Method
//   - Parameter: the row parameter, only valid as the root of a Member chain
//
// Renderers switch over these types and reject anything else:
//
//	switch n := node.(type) {
//	case *Unary:
//	case *Binary:
//	case *Constant:
//	case *Member:
//	case *Call:
//	default:
//	    // unsupported node
//	}
//
// ROW-DEPENDENT VS CLOSED:
//
// A sub-tree is row-dependent when it references the lambda's row
// parameter; otherwise it is closed and can be evaluated before any row is
// read (DependsOn, Eval). Closed members become bound parameters, row
// members become column references.
package expr
