// pkg/sql/executor/ddl.go
package executor

import (
	"fmt"
	"strings"

	"minidb/pkg/dberr"
	"minidb/pkg/index"
	"minidb/pkg/schema"
	"minidb/pkg/sql/lexer"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

func (e *Executor) executeCreateTable(stmt *parser.CreateTableStmt) (*Result, error) {
	def := schema.TableDef{Name: stmt.TableName, Strict: stmt.Strict}
	for _, cs := range stmt.Columns {
		col := schema.ColumnDef{
			Name:      cs.Name,
			Type:      cs.Type,
			Precision: cs.Precision,
			Scale:     cs.Scale,
		}
		if !cs.NotNull {
			col.Flags |= schema.FlagNullable
		}
		if cs.PrimaryKey {
			col.Flags |= schema.FlagPrimaryKey
		}
		if cs.Unique {
			col.Flags |= schema.FlagUnique
		}
		if cs.ForeignKey {
			col.Flags |= schema.FlagForeignKey
			col.RefTable = cs.RefTable
			col.RefColumn = cs.RefColumn
			refTbl, ok := e.cat.FindTable(cs.RefTable)
			if !ok {
				return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound,
					"foreign key references unknown table", cs.RefTable)
			}
			if refTbl.Def.ColumnIndex(cs.RefColumn) < 0 {
				return nil, dberr.NewColumn(dberr.Schema, dberr.CodeColumnNotFound,
					"foreign key references unknown column", cs.RefTable, cs.RefColumn)
			}
		}
		if cs.HasCheck {
			col.Flags |= schema.FlagCheck
			col.CheckExpr = exprToString(cs.CheckExpr)
		}
		def.Columns = append(def.Columns, col)
	}
	for _, chk := range stmt.TableChecks {
		def.TableChecks = append(def.TableChecks, exprToString(chk))
	}

	tbl, err := e.cat.CreateTable(def)
	if err != nil {
		return nil, err
	}

	colChecks := make(map[string]parser.Expression)
	for _, cs := range stmt.Columns {
		if cs.HasCheck {
			colChecks[cs.Name] = cs.CheckExpr
		}
	}
	e.checkExprs[tbl.Def.Name] = colChecks
	e.tableChecks[tbl.Def.Name] = append([]parser.Expression(nil), stmt.TableChecks...)

	e.log.Debug("created table", "table", tbl.Def.Name, "columns", len(tbl.Def.Columns), "strict", tbl.Def.Strict)
	return &Result{}, nil
}

func (e *Executor) executeDropTable(stmt *parser.DropTableStmt) (*Result, error) {
	if err := e.cat.DropTable(stmt.TableName); err != nil {
		return nil, err
	}
	delete(e.checkExprs, stmt.TableName)
	delete(e.tableChecks, stmt.TableName)
	e.log.Debug("dropped table", "table", stmt.TableName)
	return &Result{}, nil
}

func (e *Executor) executeCreateIndex(stmt *parser.CreateIndexStmt) (*Result, error) {
	tbl, ok := e.cat.FindTable(stmt.TableName)
	if !ok {
		return nil, dberr.NewTable(dberr.Schema, dberr.CodeTableNotFound, "table not found", stmt.TableName)
	}
	if len(stmt.Columns) != 1 {
		return nil, dberr.New(dberr.Schema, dberr.CodeColumnNotFound, "indexes support exactly one column")
	}
	colIdx := tbl.Def.ColumnIndex(stmt.Columns[0])
	if colIdx < 0 {
		return nil, dberr.NewColumn(dberr.Schema, dberr.CodeColumnNotFound, "column not found", stmt.TableName, stmt.Columns[0])
	}

	kind := e.cfg.DefaultIndexKind
	switch strings.ToUpper(stmt.Kind) {
	case "HASH":
		kind = schema.HashIndex
	case "BTREE":
		kind = schema.BTreeIndex
	}

	idx := &schema.Index{
		Name:      stmt.IndexName,
		TableName: stmt.TableName,
		Columns:   []string{stmt.Columns[0]},
		Kind:      kind,
		Impl:      e.buildIndexImpl(kind, tbl.Rows, colIdx),
	}
	if err := e.cat.CreateIndex(idx); err != nil {
		return nil, err
	}
	e.log.Debug("created index", "index", idx.Name, "table", idx.TableName, "kind", idx.Kind, "entries", idx.Impl.KeyCount())
	return &Result{}, nil
}

func (e *Executor) executeDropIndex(stmt *parser.DropIndexStmt) (*Result, error) {
	if err := e.cat.DropIndex(stmt.IndexName); err != nil {
		return nil, err
	}
	e.log.Debug("dropped index", "index", stmt.IndexName)
	return &Result{}, nil
}

func (e *Executor) buildIndexImpl(kind schema.IndexKind, rows []types.Row, colIdx int) schema.IndexHandle {
	if kind == schema.BTreeIndex {
		return index.BuildBTree(e.cfg.BTreeOrder, rows, colIdx)
	}
	return index.BuildHash(e.cfg.HashBucketCount, rows, colIdx)
}

// exprToString renders an expression back to readable SQL text, used only
// to populate schema.ColumnDef/TableDef's CheckExpr fields for
// introspection; validation itself runs against the parsed Expression the
// executor keeps cached alongside the catalog entry.
func exprToString(expr parser.Expression) string {
	if expr == nil {
		return ""
	}
	switch e := expr.(type) {
	case *parser.Literal:
		if e.Value.IsNull() {
			return "NULL"
		}
		if e.Value.Type() == types.TypeString {
			return fmt.Sprintf("'%s'", e.Value.Text())
		}
		return e.Value.String()
	case *parser.ColumnRef:
		if e.Table != "" {
			return e.Table + "." + e.Name
		}
		return e.Name
	case *parser.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprToString(e.Left), tokenToOp(e.Op), exprToString(e.Right))
	case *parser.UnaryExpr:
		return fmt.Sprintf("%s%s", tokenToOp(e.Op), exprToString(e.Right))
	case *parser.IsNullExpr:
		if e.Not {
			return fmt.Sprintf("(%s IS NOT NULL)", exprToString(e.Expr))
		}
		return fmt.Sprintf("(%s IS NULL)", exprToString(e.Expr))
	case *parser.FunctionCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = exprToString(a)
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
	default:
		return "?"
	}
}

func tokenToOp(t lexer.TokenType) string {
	switch t {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	case lexer.EQ:
		return "="
	case lexer.NEQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LTE:
		return "<="
	case lexer.GTE:
		return ">="
	case lexer.AND:
		return "AND"
	case lexer.OR:
		return "OR"
	case lexer.NOT:
		return "NOT "
	default:
		return "?"
	}
}
