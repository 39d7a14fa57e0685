package ast

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	Or BinaryOp = iota
	And
	Eq
	NotEq
	Less
	LessEq
	Greater
	GreaterEq
	Add
	Sub
	Mul
	Div
	Mod
)

var binaryOpSymbols = [...]string{
	Or:        "||",
	And:       "&&",
	Eq:        "==",
	NotEq:     "!=",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
	Add:       "+",
	Sub:       "-",
	Mul:       "*",
	Div:       "/",
	Mod:       "%",
}

// String returns the operator's source symbol.
func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryOpSymbols) {
		return "?"
	}
	return binaryOpSymbols[op]
}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	Negate UnaryOp = iota
	Not
)

// String returns the operator's source symbol.
func (op UnaryOp) String() string {
	switch op {
	case Negate:
		return "-"
	case Not:
		return "!"
	default:
		return "?"
	}
}
