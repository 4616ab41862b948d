// pkg/sql/executor/constraints.go
package executor

import (
	"fmt"
	"math"

	"minidb/pkg/dberr"
	"minidb/pkg/schema"
	"minidb/pkg/sql/eval"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

// coerceValue adapts v to fit col's declared type. A STRICT table (spec.md
// §3) rejects any mismatch outright; a non-strict table allows the usual
// numeric widenings and a render-to-STRING fallback, matching the
// looseness most embedded SQL engines apply outside of STRICT mode.
func (e *Executor) coerceValue(tableName string, col schema.ColumnDef, v types.Value, strict bool) (types.Value, error) {
	if v.IsNull() {
		if col.NotNull() {
			return types.Value{}, dberr.NewColumn(dberr.Constraint, dberr.CodeNotNullViolation,
				"column does not accept NULL", tableName, col.Name)
		}
		return types.NewNull(), nil
	}
	if v.Type() == col.Type {
		return v, nil
	}
	if strict {
		return types.Value{}, dberr.NewColumn(dberr.Constraint, dberr.CodeStrictTypeViolation,
			fmt.Sprintf("expected %s, got %s", col.Type, v.Type()), tableName, col.Name)
	}
	switch col.Type {
	case types.TypeFloat:
		if v.IsNumeric() {
			return types.NewFloat(v.AsFloat64()), nil
		}
	case types.TypeDecimal:
		if v.IsNumeric() {
			scaled := int64(math.Round(v.AsFloat64() * math.Pow10(col.Scale)))
			return types.NewDecimal(col.Precision, col.Scale, scaled), nil
		}
	case types.TypeInt:
		if v.Type() == types.TypeFloat {
			return types.NewInt(int64(v.Float())), nil
		}
	case types.TypeString:
		return types.NewString(v.String()), nil
	}
	return types.Value{}, dberr.NewColumn(dberr.Type, dberr.CodeTypeMismatch,
		fmt.Sprintf("cannot coerce %s to %s", v.Type(), col.Type), tableName, col.Name)
}

// validateRow enforces UNIQUE/PRIMARY KEY, FOREIGN KEY, and CHECK
// constraints for a fully-built row. skipPos excludes a row position from
// the UNIQUE scan (an UPDATE revalidating the row it's about to replace);
// pass -1 for a brand-new row.
func (e *Executor) validateRow(tbl *schema.Table, row types.Row, skipPos int) error {
	def := tbl.Def
	for i, col := range def.Columns {
		if !col.Flags.Has(schema.FlagUnique) && !col.Flags.Has(schema.FlagPrimaryKey) {
			continue
		}
		v := row.At(i)
		if v.IsNull() {
			continue
		}
		for pos, existing := range tbl.Rows {
			if pos == skipPos {
				continue
			}
			if types.Equal(existing.At(i), v) {
				code := dberr.CodeUniqueViolation
				if col.Flags.Has(schema.FlagPrimaryKey) {
					code = dberr.CodePrimaryKeyViolation
				}
				return dberr.NewColumn(dberr.Constraint, code,
					fmt.Sprintf("duplicate value %s for column %s", v.String(), col.Name), def.Name, col.Name)
			}
		}
	}

	for i, col := range def.Columns {
		if !col.Flags.Has(schema.FlagForeignKey) {
			continue
		}
		v := row.At(i)
		if v.IsNull() {
			continue
		}
		refTbl, ok := e.cat.FindTable(col.RefTable)
		if !ok {
			return dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "referenced table not found", col.RefTable)
		}
		refIdx := refTbl.Def.ColumnIndex(col.RefColumn)
		if refIdx < 0 {
			return dberr.NewColumn(dberr.Schema, dberr.CodeColumnNotFound, "referenced column not found", col.RefTable, col.RefColumn)
		}
		found := false
		for _, refRow := range refTbl.Rows {
			if types.Equal(refRow.At(refIdx), v) {
				found = true
				break
			}
		}
		if !found {
			return dberr.NewColumn(dberr.Constraint, dberr.CodeForeignKeyViolation,
				fmt.Sprintf("value %s has no match in %s.%s", v.String(), col.RefTable, col.RefColumn), def.Name, col.Name)
		}
	}

	cm := e.colMap(def)
	for name, expr := range e.checkExprs[def.Name] {
		ok, err := e.evalCheck(expr, row, cm)
		if err != nil {
			return err
		}
		if !ok {
			return dberr.NewColumn(dberr.Constraint, dberr.CodeCheckViolation, "CHECK constraint failed", def.Name, name)
		}
	}
	for _, expr := range e.tableChecks[def.Name] {
		ok, err := e.evalCheck(expr, row, cm)
		if err != nil {
			return err
		}
		if !ok {
			return dberr.NewTable(dberr.Constraint, dberr.CodeCheckViolation, "CHECK constraint failed", def.Name)
		}
	}
	return nil
}

func (e *Executor) evalCheck(expr parser.Expression, row types.Row, cm eval.ColumnMap) (bool, error) {
	ctx := &eval.Context{Left: row, LeftCols: cm}
	ctx.RunSub = e.runSubquery(ctx)
	v, err := eval.Eval(expr, ctx)
	if err != nil {
		return false, err
	}
	t := eval.Truthy(v)
	return t != nil && *t, nil
}
