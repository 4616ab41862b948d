package executor

import (
	"testing"

	"minidb/pkg/schema"
)

func newTestExecutor() *Executor {
	return New(schema.NewCatalog(), DefaultConfig(), nil)
}

func mustExec(t *testing.T, e *Executor, sql string) *Result {
	t.Helper()
	res, err := e.Execute(sql)
	if err != nil {
		t.Fatalf("Execute(%q): %v", sql, err)
	}
	return res
}

func TestExecuteUnsupportedStatementTypeErrors(t *testing.T) {
	e := newTestExecutor()
	_, err := e.ExecuteParsed(nil)
	if err == nil {
		t.Fatal("expected an error for a nil statement")
	}
}

func TestExecuteDispatchesCreateTableAndInsertAndSelect(t *testing.T) {
	e := newTestExecutor()
	mustExec(t, e, "CREATE TABLE users (id INT PRIMARY KEY, name TEXT)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'alice')")
	res := mustExec(t, e, "SELECT id, name FROM users")
	if len(res.Rows) != 1 || res.Rows[0][1].Text() != "alice" {
		t.Errorf("unexpected result: %+v", res.Rows)
	}
}

func TestRebuildIndexesRefreshesStats(t *testing.T) {
	e := newTestExecutor()
	mustExec(t, e, "CREATE TABLE users (id INT PRIMARY KEY, age INT)")
	mustExec(t, e, "CREATE INDEX idx_age ON users (age) HASH")
	mustExec(t, e, "INSERT INTO users VALUES (1, 30)")
	mustExec(t, e, "INSERT INTO users VALUES (2, 40)")

	stats := e.Catalog().Stats("users")
	if stats.TotalRows != 2 {
		t.Errorf("expected stats refreshed to 2 rows, got %d", stats.TotalRows)
	}

	idx, ok := e.Catalog().FindIndex("idx_age")
	if !ok {
		t.Fatal("expected idx_age to exist")
	}
	if idx.Impl.KeyCount() != 2 {
		t.Errorf("expected the rebuilt index to hold 2 keys, got %d", idx.Impl.KeyCount())
	}
}
