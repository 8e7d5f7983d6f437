/*
Package expr implements the small expression language product metadata
embeds for computed amounts and dates (spec.md §4.4): arithmetic,
comparisons, boolean logic, attribute/index access against the account and
account type, the Decimal(...) and relativedelta(...) constructors, and
rate-table method calls such as accountType.interest.get_rate(...).

DESIGN:
  The source this module was translated from hands expression strings
  straight to its host language's eval(). Go has no equivalent, and
  shelling out to one would be its own can of worms, so this package is a
  small hand-written lexer/parser/evaluator instead — deliberately scoped
  to exactly the grammar spec.md §4.4 names, not a general-purpose
  language. account.Account and product.AccountType implement Attributer
  so expressions can read through them without this package knowing
  anything about account or product internals.

USAGE:
  value, err := expr.Eval("account.current * accountType.interest.get_rate(value_date, account.current) / Decimal(365)", env)

SEE ALSO:
  - account: implements Attributer/Indexer for position/property access
  - product: implements Attributer for rate-type lookup
  - valuation: the primary caller, once per scheduled/triggered transaction
*/
package expr

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/ledgersim/caldate"
)

// Eval parses and evaluates expression against env, returning the result
// as one of caldate.Decimal, caldate.Date, RelativeDelta, string, or bool.
// Any failure — a parse error, an undefined name, a type mismatch, a
// rate-table miss bubbling up through a method call — is wrapped in
// *Error naming the original expression text.
func Eval(expression string, env Env) (interface{}, error) {
	n, err := parse(expression)
	if err != nil {
		return nil, &Error{Expression: expression, Cause: err}
	}
	v, err := evalNode(n, env)
	if err != nil {
		return nil, &Error{Expression: expression, Cause: err}
	}
	return v, nil
}

// EvalDecimal evaluates expression and requires the result to be a Decimal.
func EvalDecimal(expression string, env Env) (caldate.Decimal, error) {
	v, err := Eval(expression, env)
	if err != nil {
		return caldate.Zero, err
	}
	d, ok := v.(caldate.Decimal)
	if !ok {
		return caldate.Zero, &Error{Expression: expression, Cause: fmt.Errorf("expected a decimal result, got %T", v)}
	}
	return d, nil
}

// EvalDate evaluates expression and requires the result to be a Date.
func EvalDate(expression string, env Env) (caldate.Date, error) {
	v, err := Eval(expression, env)
	if err != nil {
		return caldate.Date{}, err
	}
	d, ok := v.(caldate.Date)
	if !ok {
		return caldate.Date{}, &Error{Expression: expression, Cause: fmt.Errorf("expected a date result, got %T", v)}
	}
	return d, nil
}

// EvalBool evaluates expression and requires the result to be a bool.
func EvalBool(expression string, env Env) (bool, error) {
	v, err := Eval(expression, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &Error{Expression: expression, Cause: fmt.Errorf("expected a boolean result, got %T", v)}
	}
	return b, nil
}

func evalNode(n node, env Env) (interface{}, error) {
	switch x := n.(type) {
	case *identNode:
		return env.Resolve(x.name)
	case *numberNode:
		d, err := decimal.NewFromString(x.text)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric literal %q: %w", x.text, err)
		}
		return d, nil
	case *stringNode:
		return x.value, nil
	case *attrNode:
		base, err := evalNode(x.base, env)
		if err != nil {
			return nil, err
		}
		attributer, ok := base.(Attributer)
		if !ok {
			return nil, fmt.Errorf("%T has no attribute %q", base, x.name)
		}
		return attributer.ExprAttr(x.name)
	case *indexNode:
		base, err := evalNode(x.base, env)
		if err != nil {
			return nil, err
		}
		key, err := evalNode(x.key, env)
		if err != nil {
			return nil, err
		}
		indexer, ok := base.(Indexer)
		if !ok {
			return nil, fmt.Errorf("%T is not indexable", base)
		}
		return indexer.ExprIndex(key)
	case *callNode:
		return evalCall(x, env)
	case *unaryNode:
		return evalUnary(x, env)
	case *binaryNode:
		return evalBinary(x, env)
	default:
		return nil, fmt.Errorf("internal error: unhandled node type %T", n)
	}
}

func evalCall(c *callNode, env Env) (interface{}, error) {
	if c.base == nil {
		return evalBuiltin(c, env)
	}
	base, err := evalNode(c.base, env)
	if err != nil {
		return nil, err
	}
	caller, ok := base.(MethodCaller)
	if !ok {
		return nil, fmt.Errorf("%T has no method %q", base, c.name)
	}
	args := make([]interface{}, len(c.args))
	for i, a := range c.args {
		v, err := evalNode(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return caller.ExprCall(c.name, args)
}

func evalBuiltin(c *callNode, env Env) (interface{}, error) {
	switch c.name {
	case "Decimal":
		if len(c.args) != 1 {
			return nil, fmt.Errorf("Decimal(...) takes exactly one argument")
		}
		v, err := evalNode(c.args[0], env)
		if err != nil {
			return nil, err
		}
		switch x := v.(type) {
		case caldate.Decimal:
			return x, nil
		case string:
			d, err := decimal.NewFromString(x)
			if err != nil {
				return nil, fmt.Errorf("Decimal(%q): %w", x, err)
			}
			return d, nil
		default:
			return nil, fmt.Errorf("Decimal(...) cannot convert %T", v)
		}
	case "relativedelta":
		rd := RelativeDelta{}
		for name, n := range c.kwargs {
			v, err := evalNode(n, env)
			if err != nil {
				return nil, err
			}
			d, ok := asDecimal(v)
			if !ok {
				return nil, fmt.Errorf("relativedelta(%s=...) expects a number", name)
			}
			switch name {
			case "years":
				rd.Years = int(d.IntPart())
			case "months":
				rd.Months = int(d.IntPart())
			case "days":
				rd.Days = int(d.IntPart())
			default:
				return nil, fmt.Errorf("relativedelta(...) has no keyword argument %q", name)
			}
		}
		return rd, nil
	default:
		return nil, fmt.Errorf("undefined function %q", c.name)
	}
}

func evalUnary(u *unaryNode, env Env) (interface{}, error) {
	v, err := evalNode(u.operand, env)
	if err != nil {
		return nil, err
	}
	switch u.op {
	case tokNot:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("'not' requires a boolean operand, got %T", v)
		}
		return !b, nil
	case tokMinus:
		d, ok := asDecimal(v)
		if !ok {
			return nil, fmt.Errorf("unary '-' requires a decimal operand, got %T", v)
		}
		return d.Neg(), nil
	case tokPlus:
		if _, ok := asDecimal(v); !ok {
			return nil, fmt.Errorf("unary '+' requires a decimal operand, got %T", v)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("internal error: unhandled unary operator %s", u.op)
	}
}

func evalBinary(b *binaryNode, env Env) (interface{}, error) {
	if b.op == tokAnd || b.op == tokOr {
		return evalBoolean(b, env)
	}

	left, err := evalNode(b.left, env)
	if err != nil {
		return nil, err
	}
	right, err := evalNode(b.right, env)
	if err != nil {
		return nil, err
	}

	switch b.op {
	case tokPlus, tokMinus:
		return evalAddSub(b.op, left, right)
	case tokStar, tokSlash:
		return evalMulDiv(b.op, left, right)
	case tokLT, tokLE, tokGT, tokGE:
		return evalOrdering(b.op, left, right)
	case tokEQ:
		return valuesEqual(left, right), nil
	case tokNE:
		return !valuesEqual(left, right), nil
	default:
		return nil, fmt.Errorf("internal error: unhandled binary operator %s", b.op)
	}
}

func evalBoolean(b *binaryNode, env Env) (interface{}, error) {
	left, err := evalNode(b.left, env)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(bool)
	if !ok {
		return nil, fmt.Errorf("%s requires boolean operands, got %T", b.op, left)
	}
	if b.op == tokAnd && !lb {
		return false, nil
	}
	if b.op == tokOr && lb {
		return true, nil
	}
	right, err := evalNode(b.right, env)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(bool)
	if !ok {
		return nil, fmt.Errorf("%s requires boolean operands, got %T", b.op, right)
	}
	return rb, nil
}

func evalAddSub(op tokenKind, left, right interface{}) (interface{}, error) {
	if ld, ok := left.(caldate.Decimal); ok {
		if rd, ok := right.(caldate.Decimal); ok {
			if op == tokPlus {
				return ld.Add(rd), nil
			}
			return ld.Sub(rd), nil
		}
	}
	if date, ok := left.(caldate.Date); ok {
		if rd, ok := right.(RelativeDelta); ok {
			if op == tokMinus {
				rd = rd.negate()
			}
			return date.RelativeDelta(rd.Years, rd.Months, rd.Days), nil
		}
	}
	return nil, fmt.Errorf("cannot apply %s to %T and %T", op, left, right)
}

func evalMulDiv(op tokenKind, left, right interface{}) (interface{}, error) {
	ld, ok := asDecimal(left)
	if !ok {
		return nil, fmt.Errorf("%s requires decimal operands, got %T", op, left)
	}
	rd, ok := asDecimal(right)
	if !ok {
		return nil, fmt.Errorf("%s requires decimal operands, got %T", op, right)
	}
	if op == tokStar {
		return ld.Mul(rd), nil
	}
	if rd.IsZero() {
		return nil, fmt.Errorf("division by zero")
	}
	return ld.Div(rd), nil
}

func evalOrdering(op tokenKind, left, right interface{}) (interface{}, error) {
	var cmp int
	switch l := left.(type) {
	case caldate.Decimal:
		r, ok := right.(caldate.Decimal)
		if !ok {
			return nil, fmt.Errorf("cannot compare %T and %T", left, right)
		}
		cmp = l.Cmp(r)
	case caldate.Date:
		r, ok := right.(caldate.Date)
		if !ok {
			return nil, fmt.Errorf("cannot compare %T and %T", left, right)
		}
		cmp = l.Compare(r)
	default:
		return nil, fmt.Errorf("cannot compare %T and %T", left, right)
	}
	switch op {
	case tokLT:
		return cmp < 0, nil
	case tokLE:
		return cmp <= 0, nil
	case tokGT:
		return cmp > 0, nil
	default: // tokGE
		return cmp >= 0, nil
	}
}

func valuesEqual(left, right interface{}) bool {
	switch l := left.(type) {
	case caldate.Decimal:
		r, ok := right.(caldate.Decimal)
		return ok && l.Equal(r)
	case caldate.Date:
		r, ok := right.(caldate.Date)
		return ok && l.Equal(r)
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	default:
		return false
	}
}
