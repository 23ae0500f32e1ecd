package expr

// Node is a predicate expression node.
//
// This is a sealed interface - only types in this package implement it.
// The marker method prevents external implementations so renderers can
// treat the node set as closed.
//
//sumtype:decl
type Node interface {
	exprNode() // Marker method - seals interface to this package
}

// Unary applies a unary operator to an operand.
//
// Op is one of Not, Negate or Convert. Convert carries no SQL-visible
// effect; renderers pass the operand through unchanged.
type Unary struct {
	Op      Kind
	Operand Node
}

func (*Unary) exprNode() {}

// Binary joins two operands with an operator.
//
// Example:
//
//	Binary{Op: GreaterThan, Left: Field(x, "Age"), Right: Const(18)}
//
// Translates to SQL:
//
//	Age > 18
type Binary struct {
	Op    Kind
	Left  Node
	Right Node
}

func (*Binary) exprNode() {}

// Constant is a value known before any row is read.
//
// Literals written directly in a predicate and captured values (a struct or
// map a predicate closes over) are both constants.
type Constant struct {
	Value any
}

func (*Constant) exprNode() {}

// Member is a dotted access Target.Name.
//
// When Target is the row parameter the member names an entity member and
// renders as a column. When Target is closed (a Constant or a chain of
// members rooted in one) the member is evaluated and bound as a value.
type Member struct {
	Target Node
	Name   string
}

func (*Member) exprNode() {}

// Call is a method call.
//
// Object is the receiver for instance-style calls (name.Contains(arg)).
// Static marks a package-level call whose receiver is passed as the first
// argument (slices.Contains(collection, item)); Object is nil then.
type Call struct {
	Method Method
	Object Node
	Args   []Node
	Static bool
}

func (*Call) exprNode() {}

// Parameter is the row parameter of a Lambda.
//
// Parameters are matched by Name. A Parameter is only meaningful as the
// root of a Member chain.
type Parameter struct {
	Name string
}

func (*Parameter) exprNode() {}

// Lambda is a boolean predicate over one row.
type Lambda struct {
	Param *Parameter
	Body  Node
}

// Method identifies a method by receiver and name.
type Method struct {
	Receiver string
	Name     string
}

// String returns "Receiver.Name".
func (m Method) String() string {
	if m.Receiver == "" {
		return m.Name
	}
	return m.Receiver + "." + m.Name
}

// Well-known methods.
var (
	// StringContains is strings.Contains(s, substr) called on a string member.
	StringContains = Method{Receiver: "string", Name: "Contains"}

	// StringHasPrefix is the StartsWith pattern method.
	StringHasPrefix = Method{Receiver: "string", Name: "StartsWith"}

	// StringHasSuffix is the EndsWith pattern method.
	StringHasSuffix = Method{Receiver: "string", Name: "EndsWith"}

	// SlicesContains is slices.Contains(collection, item).
	SlicesContains = Method{Receiver: "slices", Name: "Contains"}

	// CollectionContains is collection.Contains(item).
	CollectionContains = Method{Receiver: "collection", Name: "Contains"}
)
