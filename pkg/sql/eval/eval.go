// pkg/sql/eval/eval.go
package eval

import (
	"minidb/pkg/dberr"
	"minidb/pkg/sql/lexer"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

// Eval computes the value of an expression tree against a row context.
// NULL propagates through arithmetic and comparisons per spec.md §3's
// three-valued logic: any operand NULL yields a NULL result, except
// where AND/OR short-circuit on a known false/true operand.
func Eval(expr parser.Expression, ctx *Context) (types.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil
	case *parser.ColumnRef:
		return ctx.Resolve(e)
	case *parser.UnaryExpr:
		return evalUnary(e, ctx)
	case *parser.BinaryExpr:
		return evalBinary(e, ctx)
	case *parser.IsNullExpr:
		return evalIsNull(e, ctx)
	case *parser.LikeExpr:
		return evalLike(e, ctx)
	case *parser.InExpr:
		return evalIn(e, ctx)
	case *parser.ExistsExpr:
		return evalExists(e, ctx)
	case *parser.FunctionCall:
		return evalFunction(e, ctx)
	case *parser.SubqueryExpr:
		return evalScalarSubquery(e, ctx)
	default:
		return types.Value{}, dberr.New(dberr.Internal, dberr.CodeUnresolvedName, "unsupported expression node")
	}
}

// Truthy converts a three-valued BOOLEAN into Go tri-state: nil means
// unknown (NULL), matching spec.md §4.3's WHERE-clause semantics (a row
// is kept only when the predicate is known true).
func Truthy(v types.Value) *bool {
	if v.IsNull() {
		return nil
	}
	b := false
	switch v.Type() {
	case types.TypeBoolean:
		b = v.Bool()
	default:
		b = !v.IsNull() && v.AsFloat64() != 0
	}
	return &b
}

func evalUnary(e *parser.UnaryExpr, ctx *Context) (types.Value, error) {
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return types.Value{}, err
	}
	switch e.Op {
	case lexer.NOT:
		t := Truthy(right)
		if t == nil {
			return types.NewNull(), nil
		}
		return types.NewBoolean(!*t), nil
	case lexer.MINUS:
		if right.IsNull() {
			return types.NewNull(), nil
		}
		switch right.Type() {
		case types.TypeInt:
			return types.NewInt(-right.Int()), nil
		case types.TypeFloat:
			return types.NewFloat(-right.Float()), nil
		case types.TypeDecimal:
			p, s, scaled := right.DecimalParts()
			return types.NewDecimal(p, s, -scaled), nil
		default:
			return types.Value{}, dberr.New(dberr.Type, dberr.CodeTypeMismatch, "unary minus requires a numeric operand")
		}
	default:
		return types.Value{}, dberr.New(dberr.Internal, dberr.CodeUnresolvedName, "unsupported unary operator")
	}
}

func evalBinary(e *parser.BinaryExpr, ctx *Context) (types.Value, error) {
	if e.Op == lexer.AND {
		return evalAnd(e, ctx)
	}
	if e.Op == lexer.OR {
		return evalOr(e, ctx)
	}
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return types.Value{}, err
	}
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return types.Value{}, err
	}
	switch e.Op {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return evalArithmetic(e.Op, left, right)
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE:
		return evalComparison(e.Op, left, right)
	default:
		return types.Value{}, dberr.New(dberr.Internal, dberr.CodeUnresolvedName, "unsupported binary operator")
	}
}

func evalAnd(e *parser.BinaryExpr, ctx *Context) (types.Value, error) {
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return types.Value{}, err
	}
	lt := Truthy(left)
	if lt != nil && !*lt {
		return types.NewBoolean(false), nil
	}
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return types.Value{}, err
	}
	rt := Truthy(right)
	if rt != nil && !*rt {
		return types.NewBoolean(false), nil
	}
	if lt == nil || rt == nil {
		return types.NewNull(), nil
	}
	return types.NewBoolean(true), nil
}

func evalOr(e *parser.BinaryExpr, ctx *Context) (types.Value, error) {
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return types.Value{}, err
	}
	lt := Truthy(left)
	if lt != nil && *lt {
		return types.NewBoolean(true), nil
	}
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return types.Value{}, err
	}
	rt := Truthy(right)
	if rt != nil && *rt {
		return types.NewBoolean(true), nil
	}
	if lt == nil || rt == nil {
		return types.NewNull(), nil
	}
	return types.NewBoolean(false), nil
}

// evalArithmetic promotes INT/FLOAT/DECIMAL operands per spec.md §3 and
// reports overflow or division-by-zero as an ERROR value rather than a
// hard failure, so a faulty expression surfaces in its row instead of
// aborting the whole statement.
func evalArithmetic(op lexer.TokenType, left, right types.Value) (types.Value, error) {
	if left.IsNull() || right.IsNull() {
		return types.NewNull(), nil
	}
	if !left.IsNumeric() || !right.IsNumeric() {
		return types.Value{}, dberr.New(dberr.Type, dberr.CodeTypeMismatch, "arithmetic requires numeric operands")
	}
	if left.Type() == types.TypeInt && right.Type() == types.TypeInt {
		a, b := left.Int(), right.Int()
		switch op {
		case lexer.PLUS:
			r := a + b
			if (b > 0 && r < a) || (b < 0 && r > a) {
				return types.NewError("integer overflow"), nil
			}
			return types.NewInt(r), nil
		case lexer.MINUS:
			r := a - b
			if (b < 0 && r < a) || (b > 0 && r > a) {
				return types.NewError("integer overflow"), nil
			}
			return types.NewInt(r), nil
		case lexer.STAR:
			if a != 0 && b != 0 {
				r := a * b
				if r/b != a {
					return types.NewError("integer overflow"), nil
				}
				return types.NewInt(r), nil
			}
			return types.NewInt(0), nil
		case lexer.SLASH:
			if b == 0 {
				return types.NewError("division by zero"), nil
			}
			return types.NewInt(a / b), nil
		case lexer.PERCENT:
			if b == 0 {
				return types.NewError("division by zero"), nil
			}
			return types.NewInt(a % b), nil
		}
	}
	a, b := left.AsFloat64(), right.AsFloat64()
	switch op {
	case lexer.PLUS:
		return types.NewFloat(a + b), nil
	case lexer.MINUS:
		return types.NewFloat(a - b), nil
	case lexer.STAR:
		return types.NewFloat(a * b), nil
	case lexer.SLASH:
		if b == 0 {
			return types.NewError("division by zero"), nil
		}
		return types.NewFloat(a / b), nil
	case lexer.PERCENT:
		if b == 0 {
			return types.NewError("division by zero"), nil
		}
		return types.NewFloat(float64(int64(a) % int64(b))), nil
	}
	return types.Value{}, dberr.New(dberr.Internal, dberr.CodeUnresolvedName, "unsupported arithmetic operator")
}

func evalComparison(op lexer.TokenType, left, right types.Value) (types.Value, error) {
	if left.IsNull() || right.IsNull() {
		return types.NewNull(), nil
	}
	var result bool
	switch op {
	case lexer.EQ:
		result = types.Equal(left, right)
	case lexer.NEQ:
		result = !types.Equal(left, right)
	default:
		cmp := types.Compare(left, right)
		switch op {
		case lexer.LT:
			result = cmp < 0
		case lexer.LTE:
			result = cmp <= 0
		case lexer.GT:
			result = cmp > 0
		case lexer.GTE:
			result = cmp >= 0
		}
	}
	return types.NewBoolean(result), nil
}

func evalIsNull(e *parser.IsNullExpr, ctx *Context) (types.Value, error) {
	v, err := Eval(e.Expr, ctx)
	if err != nil {
		return types.Value{}, err
	}
	isNull := v.IsNull()
	if e.Not {
		return types.NewBoolean(!isNull), nil
	}
	return types.NewBoolean(isNull), nil
}

func evalIn(e *parser.InExpr, ctx *Context) (types.Value, error) {
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return types.Value{}, err
	}
	if left.IsNull() {
		return types.NewNull(), nil
	}

	var candidates []types.Value
	if e.Subquery != nil {
		if ctx.RunSub == nil {
			return types.Value{}, dberr.New(dberr.Internal, dberr.CodeUnresolvedName, "subqueries are not wired into this context")
		}
		rows, err := ctx.RunSub(e.Subquery)
		if err != nil {
			return types.Value{}, err
		}
		for _, row := range rows {
			if len(row) > 0 {
				candidates = append(candidates, row[0])
			}
		}
	} else {
		for _, item := range e.List {
			v, err := Eval(item, ctx)
			if err != nil {
				return types.Value{}, err
			}
			candidates = append(candidates, v)
		}
	}

	found := false
	for _, c := range candidates {
		if !c.IsNull() && types.Equal(left, c) {
			found = true
			break
		}
	}
	if e.Not {
		return types.NewBoolean(!found), nil
	}
	return types.NewBoolean(found), nil
}

func evalExists(e *parser.ExistsExpr, ctx *Context) (types.Value, error) {
	if ctx.RunSub == nil {
		return types.Value{}, dberr.New(dberr.Internal, dberr.CodeUnresolvedName, "subqueries are not wired into this context")
	}
	rows, err := ctx.RunSub(e.Subquery)
	if err != nil {
		return types.Value{}, err
	}
	exists := len(rows) > 0
	if e.Not {
		return types.NewBoolean(!exists), nil
	}
	return types.NewBoolean(exists), nil
}

func evalScalarSubquery(e *parser.SubqueryExpr, ctx *Context) (types.Value, error) {
	if ctx.RunSub == nil {
		return types.Value{}, dberr.New(dberr.Internal, dberr.CodeUnresolvedName, "subqueries are not wired into this context")
	}
	rows, err := ctx.RunSub(e.Query)
	if err != nil {
		return types.Value{}, err
	}
	if len(rows) == 0 {
		return types.NewNull(), nil
	}
	if len(rows[0]) == 0 {
		return types.NewNull(), nil
	}
	return rows[0][0], nil
}
