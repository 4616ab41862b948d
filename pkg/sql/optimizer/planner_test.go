// pkg/sql/optimizer/planner_test.go
package optimizer

import (
	"testing"

	"minidb/pkg/schema"
	"minidb/pkg/sql/lexer"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

func usersCatalogWithRows(n int, distinctIDs bool) *schema.Catalog {
	cat := schema.NewCatalog()
	def := schema.TableDef{
		Name: "users",
		Columns: []schema.ColumnDef{
			{Name: "id", Type: types.TypeInt},
			{Name: "age", Type: types.TypeInt},
		},
	}
	tbl, _ := cat.CreateTable(def)
	for i := 0; i < n; i++ {
		id := int64(i)
		if !distinctIDs {
			id = 1
		}
		tbl.Rows = append(tbl.Rows, types.Row{types.NewInt(id), types.NewInt(int64(i % 100))})
	}
	schema.Refresh(cat.Stats("users"), def, tbl.Rows)
	return cat
}

func colEq(col string, v types.Value) parser.Expression {
	return &parser.BinaryExpr{Left: &parser.ColumnRef{Name: col}, Op: lexer.EQ, Right: &parser.Literal{Value: v}}
}

func TestChoosePlanSeqScanWithoutIndex(t *testing.T) {
	cat := usersCatalogWithRows(100, true)
	plan, err := ChoosePlan(cat, "users", colEq("id", types.NewInt(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Kind != SeqScan {
		t.Errorf("expected SEQ_SCAN with no index, got %v", plan.Kind)
	}
}

func TestChoosePlanIndexScanOnEquality(t *testing.T) {
	cat := usersCatalogWithRows(1000, true)
	cat.CreateIndex(&schema.Index{Name: "idx_id", TableName: "users", Columns: []string{"id"}, Kind: schema.HashIndex})
	plan, err := ChoosePlan(cat, "users", colEq("id", types.NewInt(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Kind != IndexScan {
		t.Errorf("expected INDEX_SCAN on an indexed equality predicate, got %v", plan.Kind)
	}
	if plan.IndexName != "idx_id" || plan.IndexColumn != "id" {
		t.Errorf("unexpected plan: %+v", plan)
	}
	if plan.PredicateOp != lexer.EQ || plan.PredicateValue.Int() != 5 {
		t.Errorf("expected the predicate to be replayed on the plan, got op=%v value=%v", plan.PredicateOp, plan.PredicateValue)
	}
}

func TestChoosePlanFallsBackWhenRangeIsUnselective(t *testing.T) {
	cat := usersCatalogWithRows(1000, true)
	cat.CreateIndex(&schema.Index{Name: "idx_age", TableName: "users", Columns: []string{"age"}, Kind: schema.BTreeIndex})
	// age >= 0 matches virtually the entire table: a range scan this wide
	// should not beat a sequential scan.
	pred := &parser.BinaryExpr{Left: &parser.ColumnRef{Name: "age"}, Op: lexer.GTE, Right: &parser.Literal{Value: types.NewInt(0)}}
	plan, err := ChoosePlan(cat, "users", pred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Kind != SeqScan {
		t.Errorf("expected SEQ_SCAN for an unselective range predicate, got %v", plan.Kind)
	}
}

func TestChoosePlanNoWhereClauseIsSeqScan(t *testing.T) {
	cat := usersCatalogWithRows(50, true)
	plan, err := ChoosePlan(cat, "users", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Kind != SeqScan {
		t.Errorf("expected SEQ_SCAN with no WHERE clause, got %v", plan.Kind)
	}
}

func TestChoosePlanUnknownTableErrors(t *testing.T) {
	cat := schema.NewCatalog()
	_, err := ChoosePlan(cat, "ghost", nil)
	if err == nil {
		t.Fatal("expected an error for a table with no statistics")
	}
}

func TestScanKindString(t *testing.T) {
	if SeqScan.String() != "SEQ_SCAN" {
		t.Errorf("expected SEQ_SCAN, got %s", SeqScan.String())
	}
	if IndexScan.String() != "INDEX_SCAN" {
		t.Errorf("expected INDEX_SCAN, got %s", IndexScan.String())
	}
}
