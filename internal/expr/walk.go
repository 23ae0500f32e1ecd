package expr

// Walk visits n and its children in pre-order.
// If fn returns false the children of that node are skipped.
//
// Walk is a pure function with no side effects beyond fn.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch node := n.(type) {
	case *Unary:
		Walk(node.Operand, fn)
	case *Binary:
		Walk(node.Left, fn)
		Walk(node.Right, fn)
	case *Member:
		Walk(node.Target, fn)
	case *Call:
		Walk(node.Object, fn)
		for _, arg := range node.Args {
			Walk(arg, fn)
		}
	case *Constant, *Parameter:
		// Leaves
	}
}

// DependsOn reports whether n references the row parameter p.
//
// This is the free-variable pre-pass that separates row values from closed
// values: a sub-tree that does not depend on p can be evaluated before any
// row is read. A nil p means nothing depends on it.
func DependsOn(n Node, p *Parameter) bool {
	if p == nil {
		return false
	}

	found := false
	Walk(n, func(node Node) bool {
		if found {
			return false
		}
		if param, ok := node.(*Parameter); ok && param.Name == p.Name {
			found = true
			return false
		}
		return true
	})
	return found
}

// IsRowMember reports whether m is a direct member of the row parameter p.
func IsRowMember(m *Member, p *Parameter) bool {
	if m == nil || p == nil {
		return false
	}
	param, ok := m.Target.(*Parameter)
	return ok && param.Name == p.Name
}

// RowMembers returns the names of row members referenced by the lambda,
// in first-seen order without duplicates.
func RowMembers(l Lambda) []string {
	seen := make(map[string]bool)
	var names []string
	Walk(l.Body, func(node Node) bool {
		if m, ok := node.(*Member); ok && IsRowMember(m, l.Param) && !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
		return true
	})
	return names
}
