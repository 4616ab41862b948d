// pkg/sql/executor/select.go
package executor

import (
	"fmt"
	"sort"
	"strings"

	"minidb/pkg/dberr"
	"minidb/pkg/schema"
	"minidb/pkg/sql/eval"
	"minidb/pkg/sql/lexer"
	"minidb/pkg/sql/optimizer"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

func isAggregateName(name string) bool {
	switch strings.ToUpper(name) {
	case "COUNT", "SUM", "AVG", "MIN", "MAX":
		return true
	}
	return false
}

// projField is one resolved output column: either a plain column
// reference (including one produced by expanding a `*`) or an arbitrary
// expression, aggregate calls included.
type projField struct {
	label string
	ref   *parser.ColumnRef
	expr  parser.Expression
}

func deriveLabel(expr parser.Expression) string {
	switch e := expr.(type) {
	case *parser.ColumnRef:
		if e.Table != "" {
			return e.Table + "." + e.Name
		}
		return e.Name
	case *parser.FunctionCall:
		if e.Star {
			return e.Name + "(*)"
		}
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = exprToString(a)
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
	default:
		return exprToString(expr)
	}
}

func (e *Executor) buildProjFields(stmt *parser.SelectStmt, leftDef schema.TableDef, rightDef *schema.TableDef) []projField {
	var fields []projField
	qualify := rightDef != nil
	for _, item := range stmt.Projections {
		if item.Star {
			for _, c := range leftDef.Columns {
				label := c.Name
				if qualify {
					label = stmt.From + "." + c.Name
				}
				fields = append(fields, projField{label: label, ref: &parser.ColumnRef{Table: stmt.From, Name: c.Name}})
			}
			if rightDef != nil {
				for _, c := range rightDef.Columns {
					fields = append(fields, projField{
						label: stmt.Join.Table + "." + c.Name,
						ref:   &parser.ColumnRef{Table: stmt.Join.Table, Name: c.Name},
					})
				}
			}
			continue
		}
		label := item.Alias
		if label == "" {
			label = deriveLabel(item.Expr)
		}
		if ref, ok := item.Expr.(*parser.ColumnRef); ok {
			fields = append(fields, projField{label: label, ref: ref})
			continue
		}
		fields = append(fields, projField{label: label, expr: item.Expr})
	}
	return fields
}

func (e *Executor) evalProjField(f projField, ctx *eval.Context) (types.Value, error) {
	if f.ref != nil {
		return ctx.Resolve(f.ref)
	}
	return eval.Eval(f.expr, ctx)
}

// compareNullsFirst orders NULL below every non-NULL value, matching the
// ascending-NULLs-first default spec.md leaves unspecified.
func compareNullsFirst(a, b types.Value) int {
	if a.IsNull() && b.IsNull() {
		return 0
	}
	if a.IsNull() {
		return -1
	}
	if b.IsNull() {
		return 1
	}
	return types.Compare(a, b)
}

// planRangeBounds mirrors optimizer's own (unexported) rangeBounds helper
// so the executor can replay the chosen index scan's comparison without
// re-deriving it from the WHERE clause a second time.
func planRangeBounds(plan *optimizer.Plan) (min, max *types.Value) {
	v := plan.PredicateValue
	switch plan.PredicateOp {
	case lexer.LT, lexer.LTE:
		return nil, &v
	case lexer.GT, lexer.GTE:
		return &v, nil
	default:
		return nil, nil
	}
}

// scanRows returns the table's rows that the chosen plan says to examine.
// An index scan only ever narrows by the single predicate the planner
// picked; the caller still re-applies the full WHERE clause afterward, so
// a plan that under-selects never drops a row that should qualify.
func (e *Executor) scanRows(tbl *schema.Table, plan *optimizer.Plan) []types.Row {
	if plan.Kind != optimizer.IndexScan {
		return tbl.Rows
	}
	idx, ok := e.cat.FindIndex(plan.IndexName)
	if !ok {
		return tbl.Rows
	}
	var positions []int
	if plan.PredicateOp == lexer.EQ {
		positions = idx.Impl.FindEqual(plan.PredicateValue)
	} else {
		min, max := planRangeBounds(plan)
		positions = idx.Impl.FindRange(min, max)
	}
	rows := make([]types.Row, 0, len(positions))
	for _, pos := range positions {
		if pos >= 0 && pos < len(tbl.Rows) {
			rows = append(rows, tbl.Rows[pos])
		}
	}
	return rows
}

// executeSelect runs the full scan/filter/join/project/aggregate/sort/
// limit pipeline spec.md §4.6 describes. outer is non-nil only when this
// SELECT is a correlated subquery, in which case every row context built
// here chains to it so an unresolved column falls back to the driving
// row of the enclosing query.
func (e *Executor) executeSelect(stmt *parser.SelectStmt, outer *eval.Context) (*Result, error) {
	tbl, ok := e.cat.FindTable(stmt.From)
	if !ok {
		return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", stmt.From)
	}
	leftCols := e.colMap(tbl.Def)

	plan, err := optimizer.ChoosePlan(e.cat, stmt.From, stmt.Where)
	if err != nil {
		return nil, err
	}
	e.log.Debug("select plan", "table", stmt.From, "kind", plan.Kind, "cost", plan.EstimatedCost, "reason", plan.Reason)
	leftRows := e.scanRows(tbl, plan)

	var rightDef *schema.TableDef
	var rightCols eval.ColumnMap
	var rightTbl *schema.Table
	if stmt.Join != nil {
		rt, ok := e.cat.FindTable(stmt.Join.Table)
		if !ok {
			return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", stmt.Join.Table)
		}
		rightTbl = rt
		rightDef = &rt.Def
		rightCols = e.colMap(rt.Def)
	}

	var rowCtxs []*eval.Context
	newCtx := func(left, right types.Row) *eval.Context {
		c := &eval.Context{LeftTable: stmt.From, Left: left, LeftCols: leftCols, Outer: outer}
		if stmt.Join != nil {
			c.RightTable = stmt.Join.Table
			c.Right = right
			c.RightCols = rightCols
		}
		c.RunSub = e.runSubquery(c)
		return c
	}

	if stmt.Join == nil {
		for _, row := range leftRows {
			ctx := newCtx(row, nil)
			ok, err := e.truthy(stmt.Where, ctx)
			if err != nil {
				return nil, err
			}
			if ok {
				rowCtxs = append(rowCtxs, ctx)
			}
		}
	} else {
		nullRight := make(types.Row, len(rightDef.Columns))
		for i := range nullRight {
			nullRight[i] = types.NewNull()
		}
		for _, lrow := range leftRows {
			matched := false
			for _, rrow := range rightTbl.Rows {
				ctx := newCtx(lrow, rrow)
				onOK, err := e.truthy(stmt.Join.On, ctx)
				if err != nil {
					return nil, err
				}
				if !onOK {
					continue
				}
				matched = true
				whereOK, err := e.truthy(stmt.Where, ctx)
				if err != nil {
					return nil, err
				}
				if whereOK {
					rowCtxs = append(rowCtxs, ctx)
				}
			}
			if !matched && stmt.Join.Kind == parser.LeftJoin {
				ctx := newCtx(lrow, nullRight)
				whereOK, err := e.truthy(stmt.Where, ctx)
				if err != nil {
					return nil, err
				}
				if whereOK {
					rowCtxs = append(rowCtxs, ctx)
				}
			}
		}
	}

	fields := e.buildProjFields(stmt, tbl.Def, rightDef)

	hasAggregate := false
	for _, f := range fields {
		if fc, ok := f.expr.(*parser.FunctionCall); ok && isAggregateName(fc.Name) {
			hasAggregate = true
			break
		}
	}

	var outRows []types.Row
	if hasAggregate {
		row, err := e.aggregateRow(fields, rowCtxs)
		if err != nil {
			return nil, err
		}
		outRows = []types.Row{row}
	} else {
		if len(stmt.OrderBy) > 0 {
			if err := e.sortRowCtxs(rowCtxs, stmt.OrderBy); err != nil {
				return nil, err
			}
		}
		for _, ctx := range rowCtxs {
			row := make(types.Row, len(fields))
			for i, f := range fields {
				v, err := e.evalProjField(f, ctx)
				if err != nil {
					return nil, err
				}
				row[i] = v
			}
			outRows = append(outRows, row)
		}
		if stmt.Distinct {
			outRows = dedupRows(outRows)
		}
		if stmt.Limit != nil {
			n, err := e.evalLimit(stmt.Limit)
			if err != nil {
				return nil, err
			}
			if n < int64(len(outRows)) {
				if n < 0 {
					n = 0
				}
				outRows = outRows[:n]
			}
		}
	}

	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.label
	}
	return &Result{Columns: labels, Rows: outRows}, nil
}

func (e *Executor) truthy(expr parser.Expression, ctx *eval.Context) (bool, error) {
	if expr == nil {
		return true, nil
	}
	v, err := eval.Eval(expr, ctx)
	if err != nil {
		return false, err
	}
	t := eval.Truthy(v)
	return t != nil && *t, nil
}

func (e *Executor) evalLimit(expr parser.Expression) (int64, error) {
	v, err := eval.Eval(expr, &eval.Context{})
	if err != nil {
		return 0, err
	}
	if !v.IsNumeric() {
		return 0, dberr.New(dberr.Type, dberr.CodeTypeMismatch, "LIMIT requires a numeric expression")
	}
	return int64(v.AsFloat64()), nil
}

func (e *Executor) sortRowCtxs(rowCtxs []*eval.Context, order []parser.OrderItem) error {
	keys := make([][]types.Value, len(rowCtxs))
	for i, ctx := range rowCtxs {
		row := make([]types.Value, len(order))
		for j, item := range order {
			v, err := eval.Eval(item.Expr, ctx)
			if err != nil {
				return err
			}
			row[j] = v
		}
		keys[i] = row
	}
	idxs := make([]int, len(rowCtxs))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		ka, kb := keys[idxs[a]], keys[idxs[b]]
		for k := range order {
			cmp := compareNullsFirst(ka[k], kb[k])
			if order[k].Desc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	sorted := make([]*eval.Context, len(rowCtxs))
	for i, ix := range idxs {
		sorted[i] = rowCtxs[ix]
	}
	copy(rowCtxs, sorted)
	return nil
}

func dedupRows(rows []types.Row) []types.Row {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		var sb strings.Builder
		for _, v := range row {
			sb.WriteString(v.Type().String())
			sb.WriteByte(0)
			sb.WriteString(v.String())
			sb.WriteByte(0)
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

// aggregateRow collapses every matched row into a single output row,
// since GROUP BY is out of scope (spec.md §1's Non-goals): non-aggregate
// projections take their value from the first matching row, matching the
// relaxed single-group behavior many embedded engines allow.
func (e *Executor) aggregateRow(fields []projField, rowCtxs []*eval.Context) (types.Row, error) {
	aggregators := make([]eval.Aggregator, len(fields))
	for i, f := range fields {
		if fc, ok := f.expr.(*parser.FunctionCall); ok && isAggregateName(fc.Name) {
			agg, err := eval.NewAggregator(fc)
			if err != nil {
				return nil, err
			}
			aggregators[i] = agg
		}
	}
	for _, ctx := range rowCtxs {
		for i, f := range fields {
			if aggregators[i] == nil {
				continue
			}
			fc := f.expr.(*parser.FunctionCall)
			if fc.Star {
				aggregators[i].Add(types.NewInt(1))
				continue
			}
			v, err := eval.Eval(fc.Args[0], ctx)
			if err != nil {
				return nil, err
			}
			aggregators[i].Add(v)
		}
	}

	row := make(types.Row, len(fields))
	for i, f := range fields {
		if aggregators[i] != nil {
			row[i] = aggregators[i].Result()
			continue
		}
		if len(rowCtxs) == 0 {
			row[i] = types.NewNull()
			continue
		}
		v, err := e.evalProjField(f, rowCtxs[0])
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func (e *Executor) executeExplain(stmt *parser.ExplainStmt) (*Result, error) {
	plan, err := optimizer.ChoosePlan(e.cat, stmt.Query.From, stmt.Query.Where)
	if err != nil {
		return nil, err
	}
	row := types.Row{
		types.NewString(plan.Table),
		types.NewString(plan.Kind.String()),
		types.NewString(plan.IndexName),
		types.NewInt(plan.EstimatedRows),
		types.NewFloat(plan.EstimatedCost),
		types.NewString(plan.Reason),
	}
	return &Result{
		Columns: []string{"table", "scan", "index", "estimated_rows", "estimated_cost", "reason"},
		Rows:    []types.Row{row},
	}, nil
}

func (e *Executor) executeAnalyze(stmt *parser.AnalyzeStmt) (*Result, error) {
	tbl, ok := e.cat.FindTable(stmt.TableName)
	if !ok {
		return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", stmt.TableName)
	}
	schema.Refresh(e.cat.Stats(stmt.TableName), tbl.Def, tbl.Rows)
	e.log.Debug("analyzed table", "table", stmt.TableName, "rows", len(tbl.Rows))
	return &Result{RowsAffected: int64(len(tbl.Rows))}, nil
}
