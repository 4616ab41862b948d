// pkg/sql/eval/context.go
package eval

import (
	"minidb/pkg/dberr"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

// ColumnMap maps an unqualified column name to its position in a row.
type ColumnMap map[string]int

// SubqueryRunner executes a nested SELECT and returns its result rows,
// wired in by the executor so eval never imports it back (avoiding an
// import cycle between eval and executor).
type SubqueryRunner func(*parser.SelectStmt) ([]types.Row, error)

// Context is the row scope an expression evaluates against: the driving
// row always in Left, and — during a JOIN — the matched row from the
// joined table in Right (spec.md §4.3: unqualified names resolve against
// the left row first, then the right).
type Context struct {
	LeftTable  string
	Left       types.Row
	LeftCols   ColumnMap
	RightTable string
	Right      types.Row
	RightCols  ColumnMap
	RunSub     SubqueryRunner

	// Outer is the enclosing row context of a correlated subquery. A
	// column unresolved against Left/Right falls back to it instead of
	// failing outright, so `SELECT ... WHERE EXISTS (SELECT 1 FROM b
	// WHERE b.x = a.y)` resolves a.y against the driving row of the outer
	// query.
	Outer *Context
}

// Resolve looks up a column reference, preferring an explicit table
// qualifier when given.
func (c *Context) Resolve(ref *parser.ColumnRef) (types.Value, error) {
	if ref.Table != "" {
		if ref.Table == c.LeftTable {
			if idx, ok := c.LeftCols[ref.Name]; ok {
				return c.Left[idx], nil
			}
		}
		if c.Right != nil && ref.Table == c.RightTable {
			if idx, ok := c.RightCols[ref.Name]; ok {
				return c.Right[idx], nil
			}
		}
		if c.Outer != nil {
			return c.Outer.Resolve(ref)
		}
		return types.Value{}, dberr.New(dberr.Schema, dberr.CodeColumnNotFound,
			"unknown column: "+ref.Table+"."+ref.Name)
	}
	if idx, ok := c.LeftCols[ref.Name]; ok {
		return c.Left[idx], nil
	}
	if c.Right != nil {
		if idx, ok := c.RightCols[ref.Name]; ok {
			return c.Right[idx], nil
		}
	}
	if c.Outer != nil {
		return c.Outer.Resolve(ref)
	}
	return types.Value{}, dberr.New(dberr.Schema, dberr.CodeColumnNotFound, "unknown column: "+ref.Name)
}
