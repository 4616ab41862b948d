// pkg/schema/schema_test.go
package schema

import (
	"testing"

	"minidb/pkg/dberr"
	"minidb/pkg/types"
)

func usersDef() TableDef {
	return TableDef{
		Name: "users",
		Columns: []ColumnDef{
			{Name: "id", Type: types.TypeInt, Flags: FlagPrimaryKey},
			{Name: "name", Type: types.TypeString, Flags: FlagNullable},
		},
	}
}

func TestColumnDefNotNull(t *testing.T) {
	pk := ColumnDef{Name: "id", Flags: FlagPrimaryKey}
	if !pk.NotNull() {
		t.Error("PRIMARY KEY column should imply NOT NULL")
	}
	nullable := ColumnDef{Name: "name", Flags: FlagNullable}
	if nullable.NotNull() {
		t.Error("a FlagNullable column should not be NOT NULL")
	}
	plain := ColumnDef{Name: "age"}
	if !plain.NotNull() {
		t.Error("a column without FlagNullable should default to NOT NULL")
	}
}

func TestTableDefColumnIndex(t *testing.T) {
	def := usersDef()
	if def.ColumnIndex("name") != 1 {
		t.Errorf("expected index 1, got %d", def.ColumnIndex("name"))
	}
	if def.ColumnIndex("missing") != -1 {
		t.Error("expected -1 for a missing column")
	}
}

func TestCatalogCreateTableEnforcesUniqueNames(t *testing.T) {
	cat := NewCatalog()
	if _, err := cat.CreateTable(usersDef()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := cat.CreateTable(usersDef())
	if err == nil {
		t.Fatal("expected an error creating a duplicate table")
	}
	engErr, ok := err.(*dberr.EngineError)
	if !ok || engErr.Code != dberr.CodeTableExists {
		t.Errorf("expected CodeTableExists, got %v", err)
	}
}

func TestCatalogCreateTableEnforcesMaxTables(t *testing.T) {
	cat := NewCatalog()
	for i := 0; i < MaxTables; i++ {
		def := TableDef{Name: string(rune('a' + i)), Columns: []ColumnDef{{Name: "id", Type: types.TypeInt}}}
		if _, err := cat.CreateTable(def); err != nil {
			t.Fatalf("unexpected error at table %d: %v", i, err)
		}
	}
	_, err := cat.CreateTable(TableDef{Name: "overflow", Columns: []ColumnDef{{Name: "id", Type: types.TypeInt}}})
	if err == nil {
		t.Fatal("expected table limit error")
	}
	if engErr, ok := err.(*dberr.EngineError); !ok || engErr.Code != dberr.CodeTableLimit {
		t.Errorf("expected CodeTableLimit, got %v", err)
	}
}

func TestCatalogDropTableRemovesIndexes(t *testing.T) {
	cat := NewCatalog()
	cat.CreateTable(usersDef())
	if err := cat.CreateIndex(&Index{Name: "idx_users_id", TableName: "users", Columns: []string{"id"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cat.DropTable("users"); err != nil {
		t.Fatalf("unexpected error dropping table: %v", err)
	}
	if _, ok := cat.FindTable("users"); ok {
		t.Error("expected table to be gone after DropTable")
	}
	if _, ok := cat.FindIndex("idx_users_id"); ok {
		t.Error("expected the table's index to be dropped along with it")
	}
	if cat.Stats("users") != nil {
		t.Error("expected stats to be cleared for a dropped table")
	}
}

func TestCatalogDropTableNotFound(t *testing.T) {
	cat := NewCatalog()
	err := cat.DropTable("ghost")
	if err == nil {
		t.Fatal("expected an error dropping a nonexistent table")
	}
	if engErr, ok := err.(*dberr.EngineError); !ok || engErr.Code != dberr.CodeTableNotFound {
		t.Errorf("expected CodeTableNotFound, got %v", err)
	}
}

func TestCatalogCreateIndexEnforcesGlobalUniqueness(t *testing.T) {
	cat := NewCatalog()
	cat.CreateTable(usersDef())
	if err := cat.CreateIndex(&Index{Name: "idx1", TableName: "users", Columns: []string{"id"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := cat.CreateIndex(&Index{Name: "idx1", TableName: "users", Columns: []string{"name"}})
	if err == nil {
		t.Fatal("expected a duplicate index name to fail")
	}
}

func TestCatalogIndexForColumn(t *testing.T) {
	cat := NewCatalog()
	cat.CreateTable(usersDef())
	cat.CreateIndex(&Index{Name: "idx_name", TableName: "users", Columns: []string{"name"}})
	idx, ok := cat.IndexForColumn("users", "name")
	if !ok || idx.Name != "idx_name" {
		t.Error("expected to find idx_name for users.name")
	}
	if _, ok := cat.IndexForColumn("users", "id"); ok {
		t.Error("expected no index registered for users.id")
	}
}

func TestCatalogReset(t *testing.T) {
	cat := NewCatalog()
	cat.CreateTable(usersDef())
	cat.CreateIndex(&Index{Name: "idx1", TableName: "users", Columns: []string{"id"}})
	cat.Reset()
	if len(cat.Tables()) != 0 {
		t.Error("expected Reset to clear all tables")
	}
	if _, ok := cat.FindIndex("idx1"); ok {
		t.Error("expected Reset to clear all indexes")
	}
}
