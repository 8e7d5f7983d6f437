package expr

// node is a parsed expression tree. The concrete types below are the full
// grammar this package understands (spec.md §4.4): identifiers, numeric and
// string literals, attribute access, indexing, bare and method calls,
// unary and binary operators.
type node interface{}

type identNode struct{ name string }

type numberNode struct{ text string }

type stringNode struct{ value string }

type attrNode struct {
	base node
	name string
}

type indexNode struct {
	base node
	key  node
}

// callNode covers both a bare function call (base == nil, e.g. Decimal(x),
// relativedelta(...)) and a method call on an attribute chain (base != nil,
// e.g. accountType.interest.get_rate(value_date, amount)).
type callNode struct {
	base   node
	name   string
	args   []node
	kwargs map[string]node
}

type unaryNode struct {
	op      tokenKind
	operand node
}

type binaryNode struct {
	op          tokenKind
	left, right node
}
