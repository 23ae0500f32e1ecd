package expr

import "fmt"

// Kind identifies the operator of a Unary or Binary node.
type Kind int

const (
	Add Kind = iota + 1
	And
	AndAlso
	Divide
	Equal
	ExclusiveOr
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	Modulo
	Multiply
	Negate
	Not
	NotEqual
	Or
	OrElse
	Subtract
	Convert
)

var kindNames = map[Kind]string{
	Add:                "Add",
	And:                "And",
	AndAlso:            "AndAlso",
	Divide:             "Divide",
	Equal:              "Equal",
	ExclusiveOr:        "ExclusiveOr",
	GreaterThan:        "GreaterThan",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	LessThan:           "LessThan",
	LessThanOrEqual:    "LessThanOrEqual",
	Modulo:             "Modulo",
	Multiply:           "Multiply",
	Negate:             "Negate",
	Not:                "Not",
	NotEqual:           "NotEqual",
	Or:                 "Or",
	OrElse:             "OrElse",
	Subtract:           "Subtract",
	Convert:            "Convert",
}

// Kinds returns every operator kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := Add; k <= Convert; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsUnary reports whether k is a unary operator.
func (k Kind) IsUnary() bool {
	return k == Not || k == Negate || k == Convert
}

// symbol is the Go-ish operator used by Format.
func (k Kind) symbol() string {
	switch k {
	case Add:
		return "+"
	case And:
		return "&"
	case AndAlso:
		return "&&"
	case Divide:
		return "/"
	case Equal:
		return "=="
	case ExclusiveOr:
		return "^"
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Modulo:
		return "%"
	case Multiply:
		return "*"
	case Negate:
		return "-"
	case Not:
		return "!"
	case NotEqual:
		return "!="
	case Or:
		return "|"
	case OrElse:
		return "||"
	case Subtract:
		return "-"
	default:
		return k.String()
	}
}
