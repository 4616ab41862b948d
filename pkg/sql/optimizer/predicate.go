// pkg/sql/optimizer/predicate.go
package optimizer

import (
	"minidb/pkg/sql/lexer"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

// indexablePredicate is one column-vs-literal comparison the planner
// found in a WHERE clause's top-level AND conjunction.
type indexablePredicate struct {
	column string
	op     lexer.TokenType
	value  types.Value
}

// findIndexablePredicates walks a WHERE expression's top-level AND chain
// (spec.md §4.6 reasons about single-column predicates only — OR
// branches and nested table-valued subexpressions never narrow a scan,
// so they're skipped rather than misinterpreted as equally selective).
func findIndexablePredicates(where parser.Expression, table string) []indexablePredicate {
	if where == nil {
		return nil
	}
	var out []indexablePredicate
	var walk func(e parser.Expression)
	walk = func(e parser.Expression) {
		bin, ok := e.(*parser.BinaryExpr)
		if !ok {
			return
		}
		if bin.Op == lexer.AND {
			walk(bin.Left)
			walk(bin.Right)
			return
		}
		if p, ok := asIndexablePredicate(bin, table); ok {
			out = append(out, p)
		}
	}
	walk(where)
	return out
}

func asIndexablePredicate(bin *parser.BinaryExpr, table string) (indexablePredicate, bool) {
	switch bin.Op {
	case lexer.EQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE:
	default:
		return indexablePredicate{}, false
	}
	if col, lit, ok := splitColumnLiteral(bin.Left, bin.Right, bin.Op, table); ok {
		return indexablePredicate{column: col.Name, op: bin.Op, value: lit.Value}, true
	}
	// Try reversed operand order (literal op column), flipping the
	// comparison direction so column-on-the-left invariants still hold.
	if col, lit, ok := splitColumnLiteral(bin.Right, bin.Left, flip(bin.Op), table); ok {
		return indexablePredicate{column: col.Name, op: flip(bin.Op), value: lit.Value}, true
	}
	return indexablePredicate{}, false
}

func splitColumnLiteral(a, b parser.Expression, op lexer.TokenType, table string) (*parser.ColumnRef, *parser.Literal, bool) {
	col, ok := a.(*parser.ColumnRef)
	if !ok || (col.Table != "" && col.Table != table) {
		return nil, nil, false
	}
	lit, ok := b.(*parser.Literal)
	if !ok {
		return nil, nil, false
	}
	_ = op
	return col, lit, true
}

func flip(op lexer.TokenType) lexer.TokenType {
	switch op {
	case lexer.LT:
		return lexer.GT
	case lexer.LTE:
		return lexer.GTE
	case lexer.GT:
		return lexer.LT
	case lexer.GTE:
		return lexer.LTE
	default:
		return op
	}
}
