// pkg/sql/eval/aggregate.go
package eval

import (
	"minidb/pkg/dberr"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

// Aggregator accumulates one aggregate function's running state across a
// result set (spec.md §4.5). There is no GROUP BY: a query with any
// aggregate projection collapses to exactly one output row.
type Aggregator interface {
	Add(v types.Value)
	Result() types.Value
}

// NewAggregator builds the accumulator for one aggregate projection.
func NewAggregator(call *parser.FunctionCall) (Aggregator, error) {
	switch call.Name {
	case "COUNT":
		return &countAgg{distinct: call.Distinct, star: call.Star, seen: map[string]struct{}{}}, nil
	case "SUM":
		return &sumAgg{distinct: call.Distinct, seen: map[string]struct{}{}}, nil
	case "AVG":
		return &avgAgg{distinct: call.Distinct, seen: map[string]struct{}{}}, nil
	case "MIN":
		return &minMaxAgg{wantMax: false}, nil
	case "MAX":
		return &minMaxAgg{wantMax: true}, nil
	default:
		return nil, dberr.New(dberr.Type, dberr.CodeTypeMismatch, "unknown aggregate function: "+call.Name)
	}
}

type countAgg struct {
	distinct bool
	star     bool
	seen     map[string]struct{}
	n        int64
}

func (a *countAgg) Add(v types.Value) {
	if !a.star && v.IsNull() {
		return
	}
	if a.distinct && !a.star {
		key := v.String()
		if _, ok := a.seen[key]; ok {
			return
		}
		a.seen[key] = struct{}{}
	}
	a.n++
}
func (a *countAgg) Result() types.Value { return types.NewInt(a.n) }

type sumAgg struct {
	distinct bool
	seen     map[string]struct{}
	total    float64
	isInt    bool
	intTotal int64
	any      bool
}

func (a *sumAgg) Add(v types.Value) {
	if v.IsNull() || !v.IsNumeric() {
		return
	}
	if a.distinct {
		key := v.String()
		if _, ok := a.seen[key]; ok {
			return
		}
		a.seen[key] = struct{}{}
	}
	if !a.any {
		a.isInt = v.Type() == types.TypeInt
	}
	if v.Type() != types.TypeInt {
		a.isInt = false
	}
	a.any = true
	a.total += v.AsFloat64()
	if v.Type() == types.TypeInt {
		a.intTotal += v.Int()
	}
}
func (a *sumAgg) Result() types.Value {
	if !a.any {
		return types.NewNull()
	}
	if a.isInt {
		return types.NewInt(a.intTotal)
	}
	return types.NewFloat(a.total)
}

type avgAgg struct {
	distinct bool
	seen     map[string]struct{}
	total    float64
	count    int64
}

func (a *avgAgg) Add(v types.Value) {
	if v.IsNull() || !v.IsNumeric() {
		return
	}
	if a.distinct {
		key := v.String()
		if _, ok := a.seen[key]; ok {
			return
		}
		a.seen[key] = struct{}{}
	}
	a.total += v.AsFloat64()
	a.count++
}
func (a *avgAgg) Result() types.Value {
	if a.count == 0 {
		return types.NewNull()
	}
	return types.NewFloat(a.total / float64(a.count))
}

type minMaxAgg struct {
	wantMax bool
	have    bool
	best    types.Value
}

func (a *minMaxAgg) Add(v types.Value) {
	if v.IsNull() {
		return
	}
	if !a.have {
		a.best = v
		a.have = true
		return
	}
	cmp := types.Compare(v, a.best)
	if (a.wantMax && cmp > 0) || (!a.wantMax && cmp < 0) {
		a.best = v
	}
}
func (a *minMaxAgg) Result() types.Value {
	if !a.have {
		return types.NewNull()
	}
	return a.best
}
