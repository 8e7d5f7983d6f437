package expr

import (
	"fmt"

	"github.com/warp/ledgersim/caldate"
)

// Attributer is implemented by any value the evaluator can do `.attr`
// access on — account.Account, account.Transaction and
// product.AccountType are the concrete implementers in this module.
type Attributer interface {
	ExprAttr(name string) (interface{}, error)
}

// Indexer is implemented by any value the evaluator can do `[key]`
// access on — a value-dated property reference returned from
// account.Account.ExprAttr is the only concrete implementer.
type Indexer interface {
	ExprIndex(key interface{}) (interface{}, error)
}

// MethodCaller is implemented by any value the evaluator can invoke
// `.method(args...)` on — product.RateType is the concrete implementer,
// for get_rate and get_fee.
type MethodCaller interface {
	ExprCall(method string, args []interface{}) (interface{}, error)
}

// Env resolves the top-level names an expression may reference — account,
// accountType, transaction, value_date — per spec.md §4.4.
type Env interface {
	Resolve(name string) (interface{}, error)
}

// MapEnv is the simplest Env: a fixed set of bindings. Callers (the
// valuation engine, schedule construction) build one per evaluation.
type MapEnv map[string]interface{}

func (e MapEnv) Resolve(name string) (interface{}, error) {
	v, ok := e[name]
	if !ok {
		return nil, fmt.Errorf("undefined name %q", name)
	}
	return v, nil
}

// RelativeDelta is the value relativedelta(days=, months=, years=)
// produces — an additive calendar offset, applied via binary + / - with
// a caldate.Date operand.
type RelativeDelta struct {
	Years, Months, Days int
}

func (r RelativeDelta) negate() RelativeDelta {
	return RelativeDelta{Years: -r.Years, Months: -r.Months, Days: -r.Days}
}

// asDecimal coerces a runtime value to a Decimal, the common numeric type
// arithmetic and comparison operators work in.
func asDecimal(v interface{}) (caldate.Decimal, bool) {
	switch x := v.(type) {
	case caldate.Decimal:
		return x, true
	}
	return caldate.Zero, false
}
